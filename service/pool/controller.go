package pool

import (
	"context"

	"lendpool/core"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func (x *op) checkAction(symbol string, action core.Action) error {
	if x.paused(symbol, action) {
		return core.ErrActionPaused
	}

	return nil
}

func (x *op) checkListed(symbol string) error {
	if !x.risk(symbol).Listed {
		return core.ErrMarketNotListed
	}

	return nil
}

// ensureMaxLoops bounds the markets a single call may iterate over
func (x *op) ensureMaxLoops(n int) error {
	if n > x.pool().MaxLoopsLimit {
		return core.ErrTooManyMarkets
	}

	return nil
}

func (x *op) updatePrice(symbol string) error {
	m, err := x.market(symbol)
	if err != nil {
		return err
	}

	if err := x.e.oracle.UpdatePrice(x.ctx, m.AssetID); err != nil {
		return errors.Wrapf(err, "update price of %s", m.AssetID)
	}

	return nil
}

// price usd price of one unit of the market's underlying, a zero price is an error
func (x *op) price(symbol string) (decimal.Decimal, error) {
	m, err := x.market(symbol)
	if err != nil {
		return decimal.Zero, err
	}

	price, err := x.e.oracle.GetPrice(x.ctx, m.AssetID)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "get price of %s", m.AssetID)
	}

	if !price.IsPositive() {
		return decimal.Zero, core.ErrInvalidPrice
	}

	return price, nil
}

func (x *op) notifySupplier(symbol, account string) error {
	if x.e.rewards == nil {
		return nil
	}

	x.e.metrics.RewardHooks.WithLabelValues(x.poolID, symbol, "supply").Inc()
	return x.e.rewards.NotifySupplier(x.ctx, x.poolID, symbol, account)
}

func (x *op) notifyBorrower(symbol, account string) error {
	if x.e.rewards == nil {
		return nil
	}

	m, err := x.market(symbol)
	if err != nil {
		return err
	}

	x.e.metrics.RewardHooks.WithLabelValues(x.poolID, symbol, "borrow").Inc()
	return x.e.rewards.NotifyBorrower(x.ctx, x.poolID, symbol, account, m.BorrowIndex)
}

// deprecated markets may be liquidated without solvency checks
func (x *op) deprecated(symbol string) bool {
	m, err := x.market(symbol)
	if err != nil {
		return false
	}

	return x.risk(symbol).CollateralFactor.IsZero() &&
		x.paused(symbol, core.ActionBorrow) &&
		m.ReserveFactor.Equal(one)
}

func (x *op) preMintHook(symbol, minter string, amount decimal.Decimal) error {
	if err := x.checkAction(symbol, core.ActionMint); err != nil {
		return err
	}

	if err := x.checkListed(symbol); err != nil {
		return err
	}

	if limit := x.risk(symbol).SupplyCap; !core.IsUncapped(limit) {
		m, err := x.market(symbol)
		if err != nil {
			return err
		}

		supplied := m.TotalSupply.Mul(x.exchangeRate(m))
		if supplied.Add(amount).GreaterThan(limit) {
			return core.ErrSupplyCapReached
		}
	}

	return x.notifySupplier(symbol, minter)
}

func (x *op) preRedeemHook(symbol, redeemer string, tokens decimal.Decimal) error {
	if err := x.checkAction(symbol, core.ActionRedeem); err != nil {
		return err
	}

	if err := x.checkRedeemAllowed(symbol, redeemer, tokens); err != nil {
		return err
	}

	return x.notifySupplier(symbol, redeemer)
}

// checkRedeemAllowed tokens of symbol may leave the account without creating a shortfall
func (x *op) checkRedeemAllowed(symbol, redeemer string, tokens decimal.Decimal) error {
	if err := x.checkListed(symbol); err != nil {
		return err
	}

	if !x.isMember(redeemer, symbol) {
		return nil
	}

	snapshot, err := x.snapshot(redeemer, symbol, tokens, decimal.Zero, core.WeightCollateralFactor, true)
	if err != nil {
		return err
	}

	if snapshot.Shortfall.IsPositive() {
		return core.ErrInsufficientLiquidity
	}

	return nil
}

func (x *op) preBorrowHook(symbol, borrower string, amount decimal.Decimal) error {
	if err := x.checkAction(symbol, core.ActionBorrow); err != nil {
		return err
	}

	if err := x.checkListed(symbol); err != nil {
		return err
	}

	if !x.isMember(borrower, symbol) {
		if err := x.addToMarket(symbol, borrower); err != nil {
			return err
		}
	}

	if err := x.updatePrice(symbol); err != nil {
		return err
	}

	if _, err := x.price(symbol); err != nil {
		return err
	}

	m, err := x.market(symbol)
	if err != nil {
		return err
	}

	if limit := x.risk(symbol).BorrowCap; !core.IsUncapped(limit) {
		if m.TotalBorrows.Add(amount).GreaterThan(limit) {
			return core.ErrBorrowCapReached
		}
	}

	snapshot, err := x.snapshot(borrower, symbol, decimal.Zero, amount, core.WeightCollateralFactor, true)
	if err != nil {
		return err
	}

	if snapshot.Shortfall.IsPositive() {
		return core.ErrInsufficientLiquidity
	}

	return x.notifyBorrower(symbol, borrower)
}

func (x *op) preRepayHook(symbol, borrower string) error {
	if err := x.checkAction(symbol, core.ActionRepay); err != nil {
		return err
	}

	if err := x.checkListed(symbol); err != nil {
		return err
	}

	return x.notifyBorrower(symbol, borrower)
}

func (x *op) preTransferHook(symbol, src, dst string, tokens decimal.Decimal) error {
	if err := x.checkAction(symbol, core.ActionTransfer); err != nil {
		return err
	}

	if err := x.checkRedeemAllowed(symbol, src, tokens); err != nil {
		return err
	}

	if err := x.notifySupplier(symbol, src); err != nil {
		return err
	}

	return x.notifySupplier(symbol, dst)
}

// preSeizeHook seizer is the borrowed market of the liquidation, empty when the controller seizes
func (x *op) preSeizeHook(collateral, seizer, liquidator, borrower string) error {
	if err := x.checkAction(collateral, core.ActionSeize); err != nil {
		return err
	}

	if err := x.checkListed(collateral); err != nil {
		return err
	}

	if seizer != "" {
		if err := x.checkListed(seizer); err != nil {
			return err
		}
	}

	if !x.isMember(borrower, collateral) {
		return core.ErrSeizeNotAllowed
	}

	if err := x.notifySupplier(collateral, borrower); err != nil {
		return err
	}

	return x.notifySupplier(collateral, liquidator)
}

func (x *op) preLiquidateHook(borrowed, collateral, borrower string, repay decimal.Decimal, skipChecks bool) error {
	if err := x.checkAction(borrowed, core.ActionLiquidate); err != nil {
		return err
	}

	if err := x.updatePrice(borrowed); err != nil {
		return err
	}

	if err := x.updatePrice(collateral); err != nil {
		return err
	}

	if err := x.checkListed(borrowed); err != nil {
		return err
	}

	if err := x.checkListed(collateral); err != nil {
		return err
	}

	m, err := x.market(borrowed)
	if err != nil {
		return err
	}

	balance := x.borrowBalance(m, borrower)
	if skipChecks || x.deprecated(borrowed) {
		if repay.GreaterThan(balance) {
			return core.ErrTooMuchRepay
		}

		return nil
	}

	snapshot, err := x.snapshot(borrower, "", decimal.Zero, decimal.Zero, core.WeightLiquidationThreshold, true)
	if err != nil {
		return err
	}

	pool := x.pool()
	if snapshot.TotalCollateral.LessThanOrEqual(pool.MinLiquidatableCollateral) {
		return core.ErrMinimalCollateralViolated
	}

	if !snapshot.Shortfall.IsPositive() {
		return core.ErrNoShortfall
	}

	if repay.GreaterThan(truncate(pool.CloseFactor.Mul(balance))) {
		return core.ErrTooMuchRepay
	}

	return nil
}

func (x *op) addToMarket(symbol, account string) error {
	if err := x.checkListed(symbol); err != nil {
		return err
	}

	if x.isMember(account, symbol) {
		return nil
	}

	assets := x.assetsIn(account)
	if err := x.ensureMaxLoops(len(assets) + 1); err != nil {
		return err
	}

	next := make([]string, 0, len(assets)+1)
	next = append(next, assets...)
	x.setAssetsIn(account, append(next, symbol))
	x.record(core.ActionTypeEnterMarket, symbol, account, decimal.Zero, nil)
	return nil
}

func (x *op) exitMarket(symbol, account string) error {
	if err := x.checkAction(symbol, core.ActionExitMarket); err != nil {
		return err
	}

	m, err := x.market(symbol)
	if err != nil {
		return err
	}

	if !x.borrowBalance(m, account).IsZero() {
		return core.ErrNonzeroBorrowBalance
	}

	if err := x.checkRedeemAllowed(symbol, account, x.tokens(symbol, account)); err != nil {
		return err
	}

	if !x.isMember(account, symbol) {
		return nil
	}

	assets := x.assetsIn(account)
	next := make([]string, 0, len(assets))
	for _, s := range assets {
		if s != symbol {
			next = append(next, s)
		}
	}

	x.setAssetsIn(account, next)
	x.record(core.ActionTypeExitMarket, symbol, account, decimal.Zero, nil)
	return nil
}

// EnterMarkets adds the markets to the account's collateral
func (e *Engine) EnterMarkets(ctx context.Context, poolID, account string, symbols []string) error {
	return e.runPool(ctx, poolID, core.ActionTypeEnterMarket, func(x *op) error {
		if err := x.ensureMaxLoops(len(symbols)); err != nil {
			return err
		}

		for _, symbol := range symbols {
			if err := x.checkAction(symbol, core.ActionEnterMarket); err != nil {
				return err
			}

			if err := x.addToMarket(symbol, account); err != nil {
				return err
			}
		}

		return nil
	})
}

// ExitMarket removes the market from the account's collateral, the account must not borrow from it
func (e *Engine) ExitMarket(ctx context.Context, poolID, account, symbol string) error {
	return e.runPool(ctx, poolID, core.ActionTypeExitMarket, func(x *op) error {
		return x.exitMarket(symbol, account)
	})
}
