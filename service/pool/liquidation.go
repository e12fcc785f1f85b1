package pool

import (
	"context"

	"lendpool/core"
	"lendpool/internal/compound"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// seizeTokens claim tokens of collateral worth repay of borrowed plus the incentive
func (x *op) seizeTokens(borrowed, collateral string, repay decimal.Decimal) (decimal.Decimal, error) {
	priceBorrowed, err := x.price(borrowed)
	if err != nil {
		return decimal.Zero, err
	}

	priceCollateral, err := x.price(collateral)
	if err != nil {
		return decimal.Zero, err
	}

	cm, err := x.market(collateral)
	if err != nil {
		return decimal.Zero, err
	}

	return compound.SeizeTokens(repay, x.pool().LiquidationIncentive, priceBorrowed, priceCollateral, x.exchangeRate(cm))
}

func (x *op) healAccount(liquidator, borrower string) error {
	assets := x.assetsIn(borrower)
	if err := x.ensureMaxLoops(len(assets)); err != nil {
		return err
	}

	for _, symbol := range assets {
		if err := x.accrue(symbol); err != nil {
			return err
		}

		if err := x.updatePrice(symbol); err != nil {
			return err
		}
	}

	snapshot, err := x.snapshot(borrower, "", decimal.Zero, decimal.Zero, core.WeightLiquidationThreshold, false)
	if err != nil {
		return err
	}

	pool := x.pool()
	if snapshot.TotalCollateral.GreaterThan(pool.MinLiquidatableCollateral) {
		return core.ErrCollateralExceedsThreshold
	}

	if !snapshot.Shortfall.IsPositive() {
		return core.ErrNoShortfall
	}

	// percentage = collateral / (borrows * liquidation_incentive)
	scaledBorrows := snapshot.Borrows.Mul(pool.LiquidationIncentive)
	percentage := snapshot.TotalCollateral.DivRound(scaledBorrows, compound.MaxPricision+4).Truncate(compound.MaxPricision)
	if percentage.GreaterThan(one) {
		return core.ErrCollateralTooHighToHeal
	}

	for _, symbol := range assets {
		m, err := x.market(symbol)
		if err != nil {
			return err
		}

		balance := x.borrowBalance(m, borrower)
		if tokens := x.tokens(symbol, borrower); tokens.IsPositive() {
			if err := x.seize(symbol, "", liquidator, borrower, tokens); err != nil {
				return err
			}
		}

		if balance.IsPositive() {
			if err := x.healBorrow(symbol, liquidator, borrower, truncate(percentage.Mul(balance))); err != nil {
				return err
			}
		}
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyBorrower, borrower)
	extra.Put(core.TransactionKeyPercentage, percentage)
	x.record(core.ActionTypeHealAccount, "", liquidator, snapshot.TotalCollateral, extra)
	return nil
}

func (x *op) liquidateAccount(liquidator, borrower string, orders []*core.LiquidationOrder) error {
	snapshot, err := x.snapshot(borrower, "", decimal.Zero, decimal.Zero, core.WeightLiquidationThreshold, false)
	if err != nil {
		return err
	}

	pool := x.pool()
	if snapshot.TotalCollateral.GreaterThan(pool.MinLiquidatableCollateral) {
		return core.ErrCollateralExceedsThreshold
	}

	if !snapshot.Shortfall.IsPositive() {
		return core.ErrNoShortfall
	}

	collateralToSeize := truncate(pool.LiquidationIncentive.Mul(snapshot.Borrows))
	if collateralToSeize.GreaterThanOrEqual(snapshot.TotalCollateral) {
		return core.ErrInsufficientCollateral
	}

	if err := x.ensureMaxLoops(len(orders)); err != nil {
		return err
	}

	for _, order := range orders {
		if err := x.checkListed(order.BorrowSymbol); err != nil {
			return err
		}

		if err := x.checkListed(order.CollateralSymbol); err != nil {
			return err
		}

		if err := x.accrue(order.BorrowSymbol); err != nil {
			return err
		}

		if err := x.accrue(order.CollateralSymbol); err != nil {
			return err
		}

		if err := x.liquidateBorrowFresh(order.BorrowSymbol, liquidator, borrower, order.RepayAmount, order.CollateralSymbol, true); err != nil {
			return err
		}
	}

	for _, symbol := range x.assetsIn(borrower) {
		m, err := x.market(symbol)
		if err != nil {
			return err
		}

		if balance := x.borrowBalance(m, borrower); !balance.IsZero() {
			logger.FromContext(x.ctx).WithField("borrower", borrower).
				WithField("market", symbol).
				Errorf("borrow balance %s left after account liquidation", balance)
			return core.ErrInvariantViolation
		}
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyBorrower, borrower)
	extra.Put(core.TransactionKeyCollateral, snapshot.TotalCollateral)
	x.record(core.ActionTypeLiquidateAccount, "", liquidator, collateralToSeize, extra)
	return nil
}

// HealAccount seizes all collateral of an account too small to liquidate and forgives the debt it cannot cover
func (e *Engine) HealAccount(ctx context.Context, poolID, liquidator, borrower string) error {
	return e.runPool(ctx, poolID, core.ActionTypeHealAccount, func(x *op) error {
		return x.healAccount(liquidator, borrower)
	})
}

// LiquidateAccount liquidates every borrow of a small account in one call, all or nothing
func (e *Engine) LiquidateAccount(ctx context.Context, poolID, liquidator, borrower string, orders []*core.LiquidationOrder) error {
	return e.runPool(ctx, poolID, core.ActionTypeLiquidateAccount, func(x *op) error {
		return x.liquidateAccount(liquidator, borrower, orders)
	})
}
