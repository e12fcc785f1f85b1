package pool

import (
	"context"

	"lendpool/core"
	"lendpool/internal/compound"
	"lendpool/pkg/number"

	"github.com/shopspring/decimal"
)

func (x *op) exchangeRate(m core.Market) decimal.Decimal {
	return compound.GetExchangeRate(x.cash(m), m.TotalBorrows, m.TotalReserves, m.BadDebt, m.TotalSupply, m.InitialExchangeRate)
}

func (x *op) borrowBalance(m core.Market, account string) decimal.Decimal {
	b := x.borrowSnapshot(m.Symbol, account)
	return compound.BorrowBalance(b.Principal, b.InterestIndex, m.BorrowIndex)
}

func (x *op) fresh(m core.Market) bool {
	return m.AccrualBlock == x.block
}

// available cash not held as reserves
func (x *op) available(m core.Market) decimal.Decimal {
	return x.cash(m).Sub(m.TotalReserves)
}

// accrue rolls the market interest forward to the current block, no-op when already there
func (x *op) accrue(symbol string) error {
	m, err := x.market(symbol)
	if err != nil {
		return err
	}

	if m.AccrualBlock >= x.block {
		return nil
	}

	accrual, err := compound.AccrueInterest(&m, compound.NewRateModel(&m), x.cash(m), x.block-m.AccrualBlock)
	if err != nil {
		return err
	}

	m.TotalBorrows = accrual.TotalBorrows
	m.TotalReserves = accrual.TotalReserves
	m.BorrowIndex = accrual.BorrowIndex
	m.AccrualBlock = x.block
	x.putMarket(m)

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyBorrowIndex, m.BorrowIndex)
	extra.Put(core.TransactionKeyReserves, m.TotalReserves)
	extra.Put(core.TransactionKeyBlock, x.block)
	x.record(core.ActionTypeAccrueInterest, symbol, "", accrual.InterestAccumulated, extra)
	return nil
}

func (x *op) mintFresh(symbol, payer, minter string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	if err := x.preMintHook(symbol, minter, amount); err != nil {
		return err
	}

	m, err := x.market(symbol)
	if err != nil {
		return err
	}

	if !x.fresh(m) {
		return core.ErrAccrualNotFresh
	}

	rate := x.exchangeRate(m)
	actual, err := x.transferIn(m, payer, amount)
	if err != nil {
		return err
	}

	minted := compound.TokensForAmount(actual, rate, false)
	if !minted.IsPositive() {
		return core.ErrInvalidAmount
	}

	m.TotalSupply = m.TotalSupply.Add(minted)
	x.putMarket(m)
	x.setTokens(symbol, minter, x.tokens(symbol, minter).Add(minted))

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyTokens, minted)
	extra.Put(core.TransactionKeyTarget, payer)
	x.record(core.ActionTypeMint, symbol, minter, actual, extra)
	return nil
}

// redeemFresh exactly one of tokensIn and amountIn must be set
func (x *op) redeemFresh(symbol, redeemer, receiver string, tokensIn, amountIn decimal.Decimal) error {
	if tokensIn.IsNegative() || amountIn.IsNegative() || tokensIn.IsPositive() == amountIn.IsPositive() {
		return core.ErrInvalidAmount
	}

	m, err := x.market(symbol)
	if err != nil {
		return err
	}

	if !x.fresh(m) {
		return core.ErrAccrualNotFresh
	}

	rate := x.exchangeRate(m)
	redeemTokens, redeemAmount := tokensIn, amountIn
	if tokensIn.IsPositive() {
		redeemAmount = compound.AmountForTokens(tokensIn, rate)
	} else {
		// round up so the protocol never pays out more than it burns
		redeemTokens = compound.TokensForAmount(amountIn, rate, true)
	}

	if redeemTokens.IsZero() && redeemAmount.IsPositive() {
		return core.ErrInvalidAmount
	}

	if err := x.preRedeemHook(symbol, redeemer, redeemTokens); err != nil {
		return err
	}

	if x.available(m).LessThan(redeemAmount) {
		return core.ErrInsufficientCash
	}

	tokens := x.tokens(symbol, redeemer)
	if tokens.LessThan(redeemTokens) {
		return core.ErrInsufficientBalance
	}

	m.TotalSupply = m.TotalSupply.Sub(redeemTokens)
	x.putMarket(m)
	x.setTokens(symbol, redeemer, tokens.Sub(redeemTokens))

	if err := x.transferOut(m, receiver, redeemAmount); err != nil {
		return err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyTokens, redeemTokens)
	extra.Put(core.TransactionKeyTarget, receiver)
	x.record(core.ActionTypeRedeem, symbol, redeemer, redeemAmount, extra)
	return nil
}

func (x *op) borrowFresh(symbol, borrower string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	if err := x.preBorrowHook(symbol, borrower, amount); err != nil {
		return err
	}

	m, err := x.market(symbol)
	if err != nil {
		return err
	}

	if !x.fresh(m) {
		return core.ErrAccrualNotFresh
	}

	if x.available(m).LessThan(amount) {
		return core.ErrInsufficientCash
	}

	balance := x.borrowBalance(m, borrower)
	x.setBorrow(symbol, borrower, balance.Add(amount), m.BorrowIndex)
	m.TotalBorrows = m.TotalBorrows.Add(amount)
	x.putMarket(m)

	if err := x.transferOut(m, borrower, amount); err != nil {
		return err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyBorrowIndex, m.BorrowIndex)
	x.record(core.ActionTypeBorrow, symbol, borrower, amount, extra)
	return nil
}

// repayBorrowFresh repays at most the outstanding balance and returns the amount actually repaid
func (x *op) repayBorrowFresh(symbol, payer, borrower string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	if err := x.preRepayHook(symbol, borrower); err != nil {
		return decimal.Zero, err
	}

	m, err := x.market(symbol)
	if err != nil {
		return decimal.Zero, err
	}

	if !x.fresh(m) {
		return decimal.Zero, core.ErrAccrualNotFresh
	}

	balance := x.borrowBalance(m, borrower)
	actual, err := x.transferIn(m, payer, number.Min(amount, balance))
	if err != nil {
		return decimal.Zero, err
	}

	x.setBorrow(symbol, borrower, balance.Sub(actual), m.BorrowIndex)
	m.TotalBorrows = number.ClampZero(m.TotalBorrows.Sub(actual))
	x.putMarket(m)

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyBorrower, borrower)
	extra.Put(core.TransactionKeyBorrowIndex, m.BorrowIndex)
	x.record(core.ActionTypeRepayBorrow, symbol, payer, actual, extra)
	return actual, nil
}

func (x *op) transferTokens(symbol, src, dst string, tokens decimal.Decimal) error {
	if !tokens.IsPositive() {
		return core.ErrInvalidAmount
	}

	if src == dst {
		return core.ErrInvalidParameter
	}

	if err := x.preTransferHook(symbol, src, dst, tokens); err != nil {
		return err
	}

	srcTokens := x.tokens(symbol, src)
	if srcTokens.LessThan(tokens) {
		return core.ErrInsufficientBalance
	}

	x.setTokens(symbol, src, srcTokens.Sub(tokens))
	x.setTokens(symbol, dst, x.tokens(symbol, dst).Add(tokens))

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyTarget, dst)
	x.record(core.ActionTypeTransfer, symbol, src, tokens, extra)
	return nil
}

// seize moves claim tokens of the collateral market from borrower to liquidator,
// the protocol share is burned into reserves. seizer is the borrowed market, empty
// when the risk controller seizes directly.
func (x *op) seize(symbol, seizer, liquidator, borrower string, seizeTokens decimal.Decimal) error {
	if err := x.preSeizeHook(symbol, seizer, liquidator, borrower); err != nil {
		return err
	}

	if borrower == liquidator {
		return core.ErrSelfLiquidation
	}

	m, err := x.market(symbol)
	if err != nil {
		return err
	}

	borrowerTokens := x.tokens(symbol, borrower)
	if borrowerTokens.LessThan(seizeTokens) {
		return core.ErrInsufficientCollateral
	}

	pool := x.pool()
	protocolTokens := compound.ProtocolSeizeTokens(seizeTokens, m.ProtocolSeizeShare, pool.LiquidationIncentive)
	liquidatorTokens := seizeTokens.Sub(protocolTokens)
	protocolAmount := compound.AmountForTokens(protocolTokens, x.exchangeRate(m))

	m.TotalReserves = m.TotalReserves.Add(protocolAmount)
	m.TotalSupply = m.TotalSupply.Sub(protocolTokens)
	x.putMarket(m)

	x.setTokens(symbol, borrower, borrowerTokens.Sub(seizeTokens))
	x.setTokens(symbol, liquidator, x.tokens(symbol, liquidator).Add(liquidatorTokens))

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyBorrower, borrower)
	extra.Put(core.TransactionKeySeizeTokens, seizeTokens)
	extra.Put(core.TransactionKeyProtocolTokens, protocolTokens)
	x.record(core.ActionTypeSeize, symbol, liquidator, liquidatorTokens, extra)
	return nil
}

// liquidateBorrowFresh repays repay of borrower's debt in symbol and seizes collateral in return.
// skipChecks bypasses the solvency and close factor checks, reserved for batch liquidation.
func (x *op) liquidateBorrowFresh(symbol, liquidator, borrower string, repay decimal.Decimal, collateral string, skipChecks bool) error {
	if err := x.preLiquidateHook(symbol, collateral, borrower, repay, skipChecks); err != nil {
		return err
	}

	m, err := x.market(symbol)
	if err != nil {
		return err
	}

	if !x.fresh(m) {
		return core.ErrAccrualNotFresh
	}

	cm, err := x.market(collateral)
	if err != nil {
		return err
	}

	if !x.fresh(cm) {
		return core.ErrCollateralNotFresh
	}

	if borrower == liquidator {
		return core.ErrSelfLiquidation
	}

	if !repay.IsPositive() {
		return core.ErrInvalidAmount
	}

	actual, err := x.repayBorrowFresh(symbol, liquidator, borrower, repay)
	if err != nil {
		return err
	}

	seizeTokens, err := x.seizeTokens(symbol, collateral, actual)
	if err != nil {
		return err
	}

	if x.tokens(collateral, borrower).LessThan(seizeTokens) {
		return core.ErrInsufficientCollateral
	}

	if err := x.seize(collateral, symbol, liquidator, borrower, seizeTokens); err != nil {
		return err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyBorrower, borrower)
	extra.Put(core.TransactionKeyCollateral, collateral)
	extra.Put(core.TransactionKeySeizeTokens, seizeTokens)
	x.record(core.ActionTypeLiquidateBorrow, symbol, liquidator, actual, extra)
	return nil
}

// healBorrow repays what the payer brings and writes the rest of the borrow off as bad debt
func (x *op) healBorrow(symbol, payer, borrower string, repay decimal.Decimal) error {
	m, err := x.market(symbol)
	if err != nil {
		return err
	}

	if !x.fresh(m) {
		return core.ErrAccrualNotFresh
	}

	balance := x.borrowBalance(m, borrower)
	actual := decimal.Zero
	if repay.IsPositive() {
		if actual, err = x.transferIn(m, payer, number.Min(repay, balance)); err != nil {
			return err
		}
	}

	badDebtDelta := number.ClampZero(balance.Sub(actual))
	m.TotalBorrows = number.ClampZero(m.TotalBorrows.Sub(actual).Sub(badDebtDelta))
	m.BadDebt = m.BadDebt.Add(badDebtDelta)
	x.putMarket(m)
	x.setBorrow(symbol, borrower, decimal.Zero, m.BorrowIndex)

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyBorrower, borrower)
	extra.Put(core.TransactionKeyBadDebt, badDebtDelta)
	x.record(core.ActionTypeHealBorrow, symbol, payer, actual, extra)
	return nil
}

// AccrueInterest rolls the market forward to the current block
func (e *Engine) AccrueInterest(ctx context.Context, poolID, symbol string) error {
	return e.runPool(ctx, poolID, core.ActionTypeAccrueInterest, func(x *op) error {
		return x.accrue(symbol)
	})
}

// Mint supplies amount of underlying paid by payer, minter receives the claim tokens
func (e *Engine) Mint(ctx context.Context, poolID, symbol, payer, minter string, amount decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeMint, func(x *op) error {
		if err := x.accrue(symbol); err != nil {
			return err
		}

		return x.mintFresh(symbol, payer, minter, amount)
	})
}

// Redeem burns tokens claim tokens, or the claim tokens worth amount of underlying
func (e *Engine) Redeem(ctx context.Context, poolID, symbol, account string, tokens, amount decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeRedeem, func(x *op) error {
		if err := x.accrue(symbol); err != nil {
			return err
		}

		return x.redeemFresh(symbol, account, account, tokens, amount)
	})
}

// Borrow lends amount of underlying to account
func (e *Engine) Borrow(ctx context.Context, poolID, symbol, account string, amount decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeBorrow, func(x *op) error {
		if err := x.accrue(symbol); err != nil {
			return err
		}

		return x.borrowFresh(symbol, account, amount)
	})
}

// RepayBorrow repays borrower's debt, capped at the outstanding balance
func (e *Engine) RepayBorrow(ctx context.Context, poolID, symbol, payer, borrower string, amount decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeRepayBorrow, func(x *op) error {
		if err := x.accrue(symbol); err != nil {
			return err
		}

		_, err := x.repayBorrowFresh(symbol, payer, borrower, amount)
		return err
	})
}

// Transfer moves claim tokens between accounts
func (e *Engine) Transfer(ctx context.Context, poolID, symbol, src, dst string, tokens decimal.Decimal) error {
	return e.runPool(ctx, poolID, core.ActionTypeTransfer, func(x *op) error {
		if err := x.accrue(symbol); err != nil {
			return err
		}

		return x.transferTokens(symbol, src, dst, tokens)
	})
}

// LiquidateBorrow ordinary liquidation of one borrow against one collateral market
func (e *Engine) LiquidateBorrow(ctx context.Context, poolID, symbol, liquidator, borrower string, repay decimal.Decimal, collateral string) error {
	return e.runPool(ctx, poolID, core.ActionTypeLiquidateBorrow, func(x *op) error {
		if err := x.accrue(symbol); err != nil {
			return err
		}

		if err := x.accrue(collateral); err != nil {
			return err
		}

		return x.liquidateBorrowFresh(symbol, liquidator, borrower, repay, collateral, false)
	})
}
