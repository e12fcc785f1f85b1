package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"

	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

func poolsHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pools, err := ledger.Pools(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, pools)
	}
}

func createPoolHandler(ledger Ledger, admins Admins) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := caller(w, r)
		if !ok {
			return
		}

		if !admins.IsAdmin(account) {
			render.Error(w, core.ErrUnauthorized)
			return
		}

		var body struct {
			Name                      string          `json:"name" valid:"required"`
			Owner                     string          `json:"owner" valid:"required"`
			CloseFactor               decimal.Decimal `json:"close_factor"`
			LiquidationIncentive      decimal.Decimal `json:"liquidation_incentive"`
			MinLiquidatableCollateral decimal.Decimal `json:"min_liquidatable_collateral"`
			MaxLoopsLimit             int             `json:"max_loops_limit"`
			ShortfallAuction          string          `json:"shortfall_auction"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		pool := &core.Pool{
			ID:                        uuid.New(),
			Name:                      body.Name,
			Owner:                     body.Owner,
			CloseFactor:               body.CloseFactor,
			LiquidationIncentive:      body.LiquidationIncentive,
			MinLiquidatableCollateral: body.MinLiquidatableCollateral,
			MaxLoopsLimit:             body.MaxLoopsLimit,
			ShortfallAuction:          body.ShortfallAuction,
		}

		if err := ledger.CreatePool(r.Context(), pool); err != nil {
			render.Error(w, err)
			return
		}

		pool, err := ledger.Pool(r.Context(), pool.ID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, pool)
	}
}

func poolHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pool, err := ledger.Pool(r.Context(), param.String(r, "pool"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, pool)
	}
}
