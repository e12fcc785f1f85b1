package rest

import (
	"net/http"
	"strings"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"

	"github.com/twitchtv/twirp"
)

func accountHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderAccount(w, r, ledger)
	}
}

func renderAccount(w http.ResponseWriter, r *http.Request, ledger Ledger) {
	ctx := r.Context()
	poolID, account := param.String(r, "pool"), param.String(r, "account")

	weight, ok := core.ParseWeight(r.URL.Query().Get("weight"))
	if !ok {
		render.Error(w, twirp.InvalidArgumentError("weight", "must be collateral or liquidation"))
		return
	}

	liquidity, err := ledger.AccountLiquidity(ctx, poolID, account, weight)
	if err != nil {
		render.Error(w, err)
		return
	}

	state, _, err := ledger.SolvencyState(ctx, poolID, account)
	if err != nil {
		render.Error(w, err)
		return
	}

	assetsIn, err := ledger.AssetsIn(ctx, poolID, account)
	if err != nil {
		render.Error(w, err)
		return
	}

	positions, err := ledger.AccountSnapshots(ctx, poolID, account)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, &views.Account{
		PoolID:    poolID,
		Account:   account,
		AssetsIn:  assetsIn,
		State:     state,
		Liquidity: liquidity,
		Positions: positions,
	})
}

func healHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		liquidator, ok := caller(w, r)
		if !ok {
			return
		}

		if err := ledger.HealAccount(r.Context(), param.String(r, "pool"), liquidator, param.String(r, "account")); err != nil {
			render.Error(w, err)
			return
		}

		renderAccount(w, r, ledger)
	}
}

func liquidateAccountHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		liquidator, ok := caller(w, r)
		if !ok {
			return
		}

		var body struct {
			Orders []*core.LiquidationOrder `json:"orders"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		for _, o := range body.Orders {
			if o == nil {
				render.Error(w, twirp.InvalidArgumentError("orders", "must not contain null"))
				return
			}

			o.BorrowSymbol = strings.ToUpper(o.BorrowSymbol)
			o.CollateralSymbol = strings.ToUpper(o.CollateralSymbol)
		}

		if err := ledger.LiquidateAccount(r.Context(), param.String(r, "pool"), liquidator, param.String(r, "account"), body.Orders); err != nil {
			render.Error(w, err)
			return
		}

		renderAccount(w, r, ledger)
	}
}

// self the caller must be the account of the path
func self(w http.ResponseWriter, r *http.Request) (string, bool) {
	account, ok := caller(w, r)
	if !ok {
		return "", false
	}

	if account != param.String(r, "account") {
		render.Error(w, core.ErrUnauthorized)
		return "", false
	}

	return account, true
}

func enterHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := self(w, r)
		if !ok {
			return
		}

		var body struct {
			Symbols []string `json:"symbols"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		for i, s := range body.Symbols {
			body.Symbols[i] = strings.ToUpper(s)
		}

		if err := ledger.EnterMarkets(r.Context(), param.String(r, "pool"), account, body.Symbols); err != nil {
			render.Error(w, err)
			return
		}

		renderAccount(w, r, ledger)
	}
}

func exitHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := self(w, r)
		if !ok {
			return
		}

		var body struct {
			Symbol string `json:"symbol" valid:"required"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		if err := ledger.ExitMarket(r.Context(), param.String(r, "pool"), account, strings.ToUpper(body.Symbol)); err != nil {
			render.Error(w, err)
			return
		}

		renderAccount(w, r, ledger)
	}
}
