package rest

import (
	"context"
	"errors"
	"net/http"

	"lendpool/core"
	"lendpool/handler/render"
	"lendpool/handler/request"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/twitchtv/twirp"
)

// Ledger lending ledger served over rest
type Ledger interface {
	CreatePool(ctx context.Context, pool *core.Pool) error
	Pools(ctx context.Context) ([]*core.Pool, error)
	Pool(ctx context.Context, poolID string) (*core.Pool, error)
	Markets(ctx context.Context, poolID string) ([]*core.MarketSnapshot, error)
	MarketSnapshot(ctx context.Context, poolID, symbol string) (*core.MarketSnapshot, error)
	ActionPaused(ctx context.Context, poolID, symbol string, action core.Action) (bool, error)
	AccountSnapshots(ctx context.Context, poolID, account string) ([]*core.AccountSnapshot, error)
	AccountLiquidity(ctx context.Context, poolID, account string, weight core.Weight) (*core.AccountLiquidity, error)
	SolvencyState(ctx context.Context, poolID, account string) (core.SolvencyState, *core.AccountLiquidity, error)
	AssetsIn(ctx context.Context, poolID, account string) ([]string, error)

	AccrueInterest(ctx context.Context, poolID, symbol string) error
	Mint(ctx context.Context, poolID, symbol, payer, minter string, amount decimal.Decimal) error
	Redeem(ctx context.Context, poolID, symbol, account string, tokens, amount decimal.Decimal) error
	Borrow(ctx context.Context, poolID, symbol, account string, amount decimal.Decimal) error
	RepayBorrow(ctx context.Context, poolID, symbol, payer, borrower string, amount decimal.Decimal) error
	Transfer(ctx context.Context, poolID, symbol, src, dst string, tokens decimal.Decimal) error
	LiquidateBorrow(ctx context.Context, poolID, symbol, liquidator, borrower string, repay decimal.Decimal, collateral string) error
	HealAccount(ctx context.Context, poolID, liquidator, borrower string) error
	LiquidateAccount(ctx context.Context, poolID, liquidator, borrower string, orders []*core.LiquidationOrder) error
	EnterMarkets(ctx context.Context, poolID, account string, symbols []string) error
	ExitMarket(ctx context.Context, poolID, account, symbol string) error
}

// Admins service admins allowed to open pools
type Admins interface {
	IsAdmin(account string) bool
}

// Handle rest routes
func Handle(ledger Ledger, transactions core.TransactionStore, admins Admins) http.Handler {
	router := chi.NewRouter()
	router.Use(request.HandleAccount)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/pools", poolsHandler(ledger))
	router.Post("/pools", createPoolHandler(ledger, admins))
	router.Route("/pools/{pool}", func(r chi.Router) {
		r.Get("/", poolHandler(ledger))
		r.Get("/transactions", transactionsHandler(transactions))
		r.Get("/transactions/{trace}", transactionHandler(transactions))

		r.Get("/markets", marketsHandler(ledger))
		r.Route("/markets/{symbol}", func(r chi.Router) {
			r.Get("/", marketHandler(ledger))
			r.Post("/accrue", accrueHandler(ledger))
			r.Post("/supply", supplyHandler(ledger))
			r.Post("/withdraw", withdrawHandler(ledger))
			r.Post("/borrow", borrowHandler(ledger))
			r.Post("/repay", repayHandler(ledger))
			r.Post("/transfer", transferHandler(ledger))
			r.Post("/liquidate", liquidateBorrowHandler(ledger))
		})

		r.Route("/accounts/{account}", func(r chi.Router) {
			r.Get("/", accountHandler(ledger))
			r.Post("/heal", healHandler(ledger))
			r.Post("/liquidate", liquidateAccountHandler(ledger))
			r.Post("/enter", enterHandler(ledger))
			r.Post("/exit", exitHandler(ledger))
		})
	})

	return router
}

// caller the account named by the X-Account header, rendering 401 if absent
func caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	account, ok := request.NewContext(r.Context()).GetAccount()
	if !ok {
		render.Error(w, twirp.NewError(twirp.Unauthenticated, "missing "+request.AccountHeader))
		return "", false
	}

	return account, true
}
