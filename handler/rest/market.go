package rest

import (
	"context"
	"net/http"
	"strings"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"

	"github.com/shopspring/decimal"
)

func symbolParam(r *http.Request) string {
	return strings.ToUpper(param.String(r, "symbol"))
}

func marketsHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		poolID := param.String(r, "pool")

		markets, err := ledger.Markets(ctx, poolID)
		if err != nil {
			render.Error(w, err)
			return
		}

		marketViews := make([]*views.Market, 0, len(markets))
		for _, m := range markets {
			view, err := marketView(ctx, ledger, m)
			if err != nil {
				render.Error(w, err)
				return
			}

			marketViews = append(marketViews, view)
		}

		render.JSON(w, marketViews)
	}
}

func marketHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderMarket(w, r, ledger)
	}
}

func renderMarket(w http.ResponseWriter, r *http.Request, ledger Ledger) {
	ctx := r.Context()

	snapshot, err := ledger.MarketSnapshot(ctx, param.String(r, "pool"), symbolParam(r))
	if err != nil {
		render.Error(w, err)
		return
	}

	view, err := marketView(ctx, ledger, snapshot)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, view)
}

func marketView(ctx context.Context, ledger Ledger, snapshot *core.MarketSnapshot) (*views.Market, error) {
	view := &views.Market{MarketSnapshot: snapshot}
	for _, action := range core.Actions {
		paused, err := ledger.ActionPaused(ctx, snapshot.PoolID, snapshot.Symbol, action)
		if err != nil {
			return nil, err
		}

		if paused {
			view.Paused = append(view.Paused, action)
		}
	}

	return view, nil
}

func accrueHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ledger.AccrueInterest(r.Context(), param.String(r, "pool"), symbolParam(r)); err != nil {
			render.Error(w, err)
			return
		}

		renderMarket(w, r, ledger)
	}
}

func supplyHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := caller(w, r)
		if !ok {
			return
		}

		var body struct {
			Amount   decimal.Decimal `json:"amount"`
			OnBehalf string          `json:"on_behalf"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		minter := account
		if body.OnBehalf != "" {
			minter = body.OnBehalf
		}

		if err := ledger.Mint(r.Context(), param.String(r, "pool"), symbolParam(r), account, minter, body.Amount); err != nil {
			render.Error(w, err)
			return
		}

		renderMarket(w, r, ledger)
	}
}

func withdrawHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := caller(w, r)
		if !ok {
			return
		}

		var body struct {
			Tokens decimal.Decimal `json:"tokens"`
			Amount decimal.Decimal `json:"amount"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		if err := ledger.Redeem(r.Context(), param.String(r, "pool"), symbolParam(r), account, body.Tokens, body.Amount); err != nil {
			render.Error(w, err)
			return
		}

		renderMarket(w, r, ledger)
	}
}

func borrowHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := caller(w, r)
		if !ok {
			return
		}

		var body struct {
			Amount decimal.Decimal `json:"amount"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		if err := ledger.Borrow(r.Context(), param.String(r, "pool"), symbolParam(r), account, body.Amount); err != nil {
			render.Error(w, err)
			return
		}

		renderMarket(w, r, ledger)
	}
}

func repayHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := caller(w, r)
		if !ok {
			return
		}

		var body struct {
			Amount   decimal.Decimal `json:"amount"`
			Borrower string          `json:"borrower"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		borrower := account
		if body.Borrower != "" {
			borrower = body.Borrower
		}

		if err := ledger.RepayBorrow(r.Context(), param.String(r, "pool"), symbolParam(r), account, borrower, body.Amount); err != nil {
			render.Error(w, err)
			return
		}

		renderMarket(w, r, ledger)
	}
}

func transferHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := caller(w, r)
		if !ok {
			return
		}

		var body struct {
			To     string          `json:"to" valid:"required"`
			Tokens decimal.Decimal `json:"tokens"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		if err := ledger.Transfer(r.Context(), param.String(r, "pool"), symbolParam(r), account, body.To, body.Tokens); err != nil {
			render.Error(w, err)
			return
		}

		renderMarket(w, r, ledger)
	}
}

func liquidateBorrowHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := caller(w, r)
		if !ok {
			return
		}

		var body struct {
			Borrower   string          `json:"borrower" valid:"required"`
			Collateral string          `json:"collateral" valid:"required"`
			Repay      decimal.Decimal `json:"repay_amount"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		err := ledger.LiquidateBorrow(
			r.Context(),
			param.String(r, "pool"),
			symbolParam(r),
			account,
			body.Borrower,
			body.Repay,
			strings.ToUpper(body.Collateral),
		)
		if err != nil {
			render.Error(w, err)
			return
		}

		renderMarket(w, r, ledger)
	}
}
