package pool

import (
	"context"

	"lendpool/core"
	"lendpool/internal/compound"

	"github.com/fox-one/pkg/logger"
	foxuuid "github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMaxLoopsLimit markets an account may enter unless the pool says otherwise
const DefaultMaxLoopsLimit = 16

var one = decimal.NewFromInt(1)

// MarketAddress custody address of a market in the balance book
func MarketAddress(poolID, symbol string) string {
	return foxuuid.Modify(poolID, "market:"+symbol)
}

func validatePool(p *core.Pool) error {
	if p.Owner == "" || p.MaxLoopsLimit <= 0 {
		return core.ErrInvalidParameter
	}

	if p.CloseFactor.LessThan(compound.CloseFactorMin) || p.CloseFactor.GreaterThan(compound.CloseFactorMax) {
		return core.ErrInvalidParameter
	}

	if p.LiquidationIncentive.LessThan(compound.LiquidationIncentiveMin) {
		return core.ErrInvalidParameter
	}

	if p.MinLiquidatableCollateral.IsNegative() {
		return core.ErrInvalidParameter
	}

	return nil
}

// checkAccess the owner may call every setter, anybody else needs a grant of the scope
func (x *op) checkAccess(caller string, scope core.AccessScope) error {
	if caller != "" && caller == x.pool().Owner {
		return nil
	}

	if x.granted(caller, scope) {
		return nil
	}

	return core.ErrUnauthorized
}

func (x *op) checkOwner(caller string) error {
	if caller == "" || caller != x.pool().Owner {
		return core.ErrUnauthorized
	}

	return nil
}

// recordConfig touches the pool configuration and audits the change
func (x *op) recordConfig(action core.ActionType, symbol, caller string, before, after interface{}) {
	x.touchConfig()

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyOld, before)
	extra.Put(core.TransactionKeyNew, after)
	x.record(action, symbol, caller, decimal.Zero, extra)
}

func (x *op) setCollateralFactor(symbol string, cf, lt decimal.Decimal) error {
	if cf.IsNegative() || cf.GreaterThan(compound.CollateralFactorMax) {
		return core.ErrInvalidParameter
	}

	if lt.LessThan(cf) || lt.GreaterThan(one) {
		return core.ErrInvalidParameter
	}

	if cf.IsPositive() {
		if _, err := x.price(symbol); err != nil {
			return err
		}
	}

	if cf.IsPositive() && cf.Equal(lt) {
		logger.FromContext(x.ctx).WithField("market", symbol).
			Warnln("collateral factor equals liquidation threshold, positions have no liquidation buffer")
	}

	risk := x.risk(symbol)
	risk.CollateralFactor = cf
	risk.LiquidationThreshold = lt
	x.putRisk(risk)
	return nil
}

func validateRateModel(params *core.RateModelParams) error {
	switch params.Kind {
	case core.RateModelJump, core.RateModelWhitePaper:
	default:
		return core.ErrInvalidParameter
	}

	for _, v := range []decimal.Decimal{params.BaseRate, params.Multiplier, params.JumpMultiplier, params.Kink} {
		if v.IsNegative() {
			return core.ErrInvalidParameter
		}
	}

	if params.Kink.GreaterThan(one) {
		return core.ErrInvalidParameter
	}

	return nil
}

func applyRateModel(m *core.Market, params *core.RateModelParams) {
	m.RateModel = params.Kind
	m.BaseRate = params.BaseRate
	m.Multiplier = params.Multiplier
	m.JumpMultiplier = params.JumpMultiplier
	m.Kink = params.Kink
}

// SupportMarket lists a new market in the pool
func (e *Engine) SupportMarket(ctx context.Context, poolID, caller string, params *core.MarketParams) error {
	return e.runPool(ctx, poolID, core.ActionTypeSupportMarket, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSupportMarket); err != nil {
			return err
		}

		if params.Symbol == "" || params.AssetID == "" || !params.InitialExchangeRate.IsPositive() {
			return core.ErrInvalidParameter
		}

		if _, err := x.market(params.Symbol); err == nil {
			return core.ErrMarketAlreadyListed
		}

		if err := x.ensureMaxLoops(len(x.symbols()) + 1); err != nil {
			return err
		}

		if params.ReserveFactor.IsNegative() || params.ReserveFactor.GreaterThan(one) {
			return core.ErrInvalidParameter
		}

		if params.ProtocolSeizeShare.IsNegative() ||
			params.ProtocolSeizeShare.GreaterThan(x.pool().LiquidationIncentive.Sub(one)) {
			return core.ErrInvalidParameter
		}

		if err := validateRateModel(&params.RateModel); err != nil {
			return err
		}

		market := core.Market{
			PoolID:              poolID,
			Symbol:              params.Symbol,
			AssetID:             params.AssetID,
			Address:             MarketAddress(poolID, params.Symbol),
			TotalSupply:         decimal.Zero,
			TotalBorrows:        decimal.Zero,
			TotalReserves:       decimal.Zero,
			BadDebt:             decimal.Zero,
			InitialExchangeRate: params.InitialExchangeRate,
			ReserveFactor:       params.ReserveFactor,
			ProtocolSeizeShare:  params.ProtocolSeizeShare,
			BorrowIndex:         one,
			AccrualBlock:        x.block,
		}
		applyRateModel(&market, &params.RateModel)
		x.putMarket(market)

		x.putRisk(core.MarketRisk{
			PoolID:               poolID,
			Symbol:               params.Symbol,
			Listed:               true,
			CollateralFactor:     decimal.Zero,
			LiquidationThreshold: decimal.Zero,
			SupplyCap:            params.SupplyCap,
			BorrowCap:            params.BorrowCap,
		})

		if err := x.setCollateralFactor(params.Symbol, params.CollateralFactor, params.LiquidationThreshold); err != nil {
			return err
		}

		x.recordConfig(core.ActionTypeSupportMarket, params.Symbol, caller, nil, params)
		return nil
	})
}

// SetCloseFactor sets the share of a borrow one ordinary liquidation may repay
func (e *Engine) SetCloseFactor(ctx context.Context, poolID, caller string, closeFactor decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetCloseFactor, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetCloseFactor); err != nil {
			return err
		}

		if closeFactor.LessThan(compound.CloseFactorMin) || closeFactor.GreaterThan(compound.CloseFactorMax) {
			return core.ErrInvalidParameter
		}

		p := x.pool()
		old := p.CloseFactor
		p.CloseFactor = closeFactor
		x.putPool(p)
		x.recordConfig(core.ActionTypeSetCloseFactor, "", caller, old, closeFactor)
		return nil
	})
}

// SetCollateralFactor sets the borrowing and liquidation weights of a market
func (e *Engine) SetCollateralFactor(ctx context.Context, poolID, caller, symbol string, cf, lt decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetCollateral, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetCollateralFactor); err != nil {
			return err
		}

		if err := x.checkListed(symbol); err != nil {
			return err
		}

		old := x.risk(symbol)
		if err := x.setCollateralFactor(symbol, cf, lt); err != nil {
			return err
		}

		x.recordConfig(core.ActionTypeSetCollateral, symbol, caller,
			[]decimal.Decimal{old.CollateralFactor, old.LiquidationThreshold},
			[]decimal.Decimal{cf, lt},
		)
		return nil
	})
}

// SetLiquidationIncentive sets the collateral bonus paid to liquidators
func (e *Engine) SetLiquidationIncentive(ctx context.Context, poolID, caller string, incentive decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetIncentive, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetLiquidationIncentive); err != nil {
			return err
		}

		if incentive.LessThan(compound.LiquidationIncentiveMin) {
			return core.ErrInvalidParameter
		}

		p := x.pool()
		old := p.LiquidationIncentive
		p.LiquidationIncentive = incentive
		x.putPool(p)

		bonus := incentive.Sub(one)
		for _, symbol := range x.symbols() {
			m, err := x.market(symbol)
			if err != nil {
				return err
			}

			if m.ProtocolSeizeShare.GreaterThan(bonus) {
				logger.FromContext(x.ctx).WithField("market", symbol).
					Warnf("protocol seize share %s exceeds liquidation bonus %s", m.ProtocolSeizeShare, bonus)
			}
		}

		x.recordConfig(core.ActionTypeSetIncentive, "", caller, old, incentive)
		return nil
	})
}

// SetMinLiquidatableCollateral sets the usd collateral under which only batch liquidation applies
func (e *Engine) SetMinLiquidatableCollateral(ctx context.Context, poolID, caller string, value decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetMinLiquidatable, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetMinLiquidatableCollateral); err != nil {
			return err
		}

		if value.IsNegative() {
			return core.ErrInvalidParameter
		}

		p := x.pool()
		old := p.MinLiquidatableCollateral
		p.MinLiquidatableCollateral = value
		x.putPool(p)
		x.recordConfig(core.ActionTypeSetMinLiquidatable, "", caller, old, value)
		return nil
	})
}

// SetMarketSupplyCaps sets supply caps, a negative cap removes the cap
func (e *Engine) SetMarketSupplyCaps(ctx context.Context, poolID, caller string, symbols []string, caps []decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetSupplyCap, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetMarketSupplyCaps); err != nil {
			return err
		}

		return x.setCaps(core.ActionTypeSetSupplyCap, caller, symbols, caps, func(r *core.MarketRisk) *decimal.Decimal {
			return &r.SupplyCap
		})
	})
}

// SetMarketBorrowCaps sets borrow caps, a negative cap removes the cap
func (e *Engine) SetMarketBorrowCaps(ctx context.Context, poolID, caller string, symbols []string, caps []decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetBorrowCap, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetMarketBorrowCaps); err != nil {
			return err
		}

		return x.setCaps(core.ActionTypeSetBorrowCap, caller, symbols, caps, func(r *core.MarketRisk) *decimal.Decimal {
			return &r.BorrowCap
		})
	})
}

func (x *op) setCaps(action core.ActionType, caller string, symbols []string, caps []decimal.Decimal, field func(r *core.MarketRisk) *decimal.Decimal) error {
	if len(symbols) == 0 || len(symbols) != len(caps) {
		return core.ErrArrayLengthMismatch
	}

	for idx, symbol := range symbols {
		if _, err := x.market(symbol); err != nil {
			return err
		}

		risk := x.risk(symbol)
		v := field(&risk)
		old := *v
		*v = caps[idx]
		x.putRisk(risk)
		x.recordConfig(action, symbol, caller, old, caps[idx])
	}

	return nil
}

// SetActionsPaused pauses or resumes every action on every market given
func (e *Engine) SetActionsPaused(ctx context.Context, poolID, caller string, symbols []string, actions []core.Action, paused bool) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetActionPaused, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetActionsPaused); err != nil {
			return err
		}

		for _, action := range actions {
			if !core.CheckAction(action.String()) {
				return core.ErrInvalidParameter
			}
		}

		for _, symbol := range symbols {
			if err := x.checkListed(symbol); err != nil {
				return err
			}

			for _, action := range actions {
				old := x.paused(symbol, action)
				x.setPaused(symbol, action, paused)
				x.recordConfig(core.ActionTypeSetActionPaused, symbol, caller,
					map[string]interface{}{action.String(): old},
					map[string]interface{}{action.String(): paused},
				)
			}
		}

		return nil
	})
}

// SetMaxLoopsLimit raises the bound on markets iterated by one call
func (e *Engine) SetMaxLoopsLimit(ctx context.Context, poolID, caller string, limit int) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetMaxLoopsLimit, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetMaxLoopsLimit); err != nil {
			return err
		}

		p := x.pool()
		if limit <= p.MaxLoopsLimit {
			return core.ErrInvalidParameter
		}

		old := p.MaxLoopsLimit
		p.MaxLoopsLimit = limit
		x.putPool(p)
		x.recordConfig(core.ActionTypeSetMaxLoopsLimit, "", caller, old, limit)
		return nil
	})
}

// SetPriceOracle names the price source of the pool
func (e *Engine) SetPriceOracle(ctx context.Context, poolID, caller, oracle string) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetPriceOracle, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetPriceOracle); err != nil {
			return err
		}

		if oracle == "" {
			return core.ErrInvalidParameter
		}

		p := x.pool()
		old := p.Oracle
		p.Oracle = oracle
		x.putPool(p)
		x.recordConfig(core.ActionTypeSetPriceOracle, "", caller, old, oracle)
		return nil
	})
}

// SetShortfallAuction sets the only account allowed to report recovered bad debt
func (e *Engine) SetShortfallAuction(ctx context.Context, poolID, caller, auction string) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetAuction, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetShortfallAuction); err != nil {
			return err
		}

		if auction == "" {
			return core.ErrInvalidParameter
		}

		p := x.pool()
		old := p.ShortfallAuction
		p.ShortfallAuction = auction
		x.putPool(p)
		x.recordConfig(core.ActionTypeSetAuction, "", caller, old, auction)
		return nil
	})
}

// SetReserveFactor sets the share of interest kept as reserves, interest is accrued at the old factor first
func (e *Engine) SetReserveFactor(ctx context.Context, poolID, caller, symbol string, factor decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetReserveFactor, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetReserveFactor); err != nil {
			return err
		}

		if factor.IsNegative() || factor.GreaterThan(one) {
			return core.ErrInvalidParameter
		}

		if err := x.accrue(symbol); err != nil {
			return err
		}

		m, err := x.market(symbol)
		if err != nil {
			return err
		}

		old := m.ReserveFactor
		m.ReserveFactor = factor
		x.putMarket(m)
		x.recordConfig(core.ActionTypeSetReserveFactor, symbol, caller, old, factor)
		return nil
	})
}

// SetProtocolSeizeShare sets the share of seized collateral kept by the protocol
func (e *Engine) SetProtocolSeizeShare(ctx context.Context, poolID, caller, symbol string, share decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetSeizeShare, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetProtocolSeizeShare); err != nil {
			return err
		}

		if share.IsNegative() || share.GreaterThan(x.pool().LiquidationIncentive.Sub(one)) {
			return core.ErrInvalidParameter
		}

		m, err := x.market(symbol)
		if err != nil {
			return err
		}

		old := m.ProtocolSeizeShare
		m.ProtocolSeizeShare = share
		x.putMarket(m)
		x.recordConfig(core.ActionTypeSetSeizeShare, symbol, caller, old, share)
		return nil
	})
}

// SetInterestRateModel swaps the rate model, interest is accrued at the old model first
func (e *Engine) SetInterestRateModel(ctx context.Context, poolID, caller, symbol string, params *core.RateModelParams) error {
	return e.runPool(ctx, poolID, core.ActionTypeSetRateModel, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeSetInterestRateModel); err != nil {
			return err
		}

		if err := validateRateModel(params); err != nil {
			return err
		}

		if err := x.accrue(symbol); err != nil {
			return err
		}

		m, err := x.market(symbol)
		if err != nil {
			return err
		}

		old := core.RateModelParams{
			Kind:           m.RateModel,
			BaseRate:       m.BaseRate,
			Multiplier:     m.Multiplier,
			JumpMultiplier: m.JumpMultiplier,
			Kink:           m.Kink,
		}
		applyRateModel(&m, params)
		x.putMarket(m)
		x.recordConfig(core.ActionTypeSetRateModel, symbol, caller, old, params)
		return nil
	})
}

// AddReserves anybody may add underlying to the reserves of a market
func (e *Engine) AddReserves(ctx context.Context, poolID, symbol, payer string, amount decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeAddReserves, func(x *op) error {
		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		if err := x.accrue(symbol); err != nil {
			return err
		}

		m, err := x.market(symbol)
		if err != nil {
			return err
		}

		actual, err := x.transferIn(m, payer, amount)
		if err != nil {
			return err
		}

		m.TotalReserves = m.TotalReserves.Add(actual)
		x.putMarket(m)

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyReserves, m.TotalReserves)
		x.record(core.ActionTypeAddReserves, symbol, payer, actual, extra)
		return nil
	})
}

// ReduceReserves pays amount of the reserves out to the pool owner
func (e *Engine) ReduceReserves(ctx context.Context, poolID, caller, symbol string, amount decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeReduceReserves, func(x *op) error {
		if err := x.checkAccess(caller, core.ScopeReduceReserves); err != nil {
			return err
		}

		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		if err := x.accrue(symbol); err != nil {
			return err
		}

		m, err := x.market(symbol)
		if err != nil {
			return err
		}

		if amount.GreaterThan(m.TotalReserves) {
			return core.ErrInvalidAmount
		}

		if amount.GreaterThan(x.cash(m)) {
			return core.ErrInsufficientCash
		}

		m.TotalReserves = m.TotalReserves.Sub(amount)
		x.putMarket(m)

		if err := x.transferOut(m, x.pool().Owner, amount); err != nil {
			return err
		}

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyReserves, m.TotalReserves)
		extra.Put(core.TransactionKeyTarget, x.pool().Owner)
		x.record(core.ActionTypeReduceReserves, symbol, caller, amount, extra)
		return nil
	})
}

// BadDebtRecovered the shortfall auction pays amount into the market and the bad debt shrinks by it
func (e *Engine) BadDebtRecovered(ctx context.Context, poolID, caller, symbol string, amount decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeBadDebtRecovered, func(x *op) error {
		auction := x.pool().ShortfallAuction
		if auction == "" || caller != auction {
			return core.ErrUnauthorized
		}

		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		m, err := x.market(symbol)
		if err != nil {
			return err
		}

		if amount.GreaterThan(m.BadDebt) {
			return core.ErrInvalidAmount
		}

		actual, err := x.transferIn(m, caller, amount)
		if err != nil {
			return err
		}

		m.BadDebt = m.BadDebt.Sub(actual)
		x.putMarket(m)

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyBadDebt, m.BadDebt)
		x.record(core.ActionTypeBadDebtRecovered, symbol, caller, actual, extra)
		return nil
	})
}

// GrantPermission lets account call the setter behind scope, owner only
func (e *Engine) GrantPermission(ctx context.Context, poolID, caller, account string, scope core.AccessScope) error {
	return e.setPermission(ctx, poolID, caller, account, scope, true)
}

// RevokePermission withdraws a grant, owner only
func (e *Engine) RevokePermission(ctx context.Context, poolID, caller, account string, scope core.AccessScope) error {
	return e.setPermission(ctx, poolID, caller, account, scope, false)
}

func (e *Engine) setPermission(ctx context.Context, poolID, caller, account string, scope core.AccessScope, granted bool) error {
	action := core.ActionTypeGrantPermission
	if !granted {
		action = core.ActionTypeRevokePermission
	}

	return e.runPool(ctx, poolID, action, func(x *op) error {
		if err := x.checkOwner(caller); err != nil {
			return err
		}

		if account == "" || !core.CheckScope(scope.String()) {
			return core.ErrInvalidParameter
		}

		x.setGranted(account, scope, granted)
		x.touchConfig()

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyTarget, account)
		extra.Put(core.TransactionKeyNew, scope)
		x.record(action, "", caller, decimal.Zero, extra)
		return nil
	})
}
