package compound

import (
	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/shopspring/decimal"
)

// Accrual result of rolling a market forward
type Accrual struct {
	BorrowRate          decimal.Decimal
	InterestAccumulated decimal.Decimal
	TotalBorrows        decimal.Decimal
	TotalReserves       decimal.Decimal
	BorrowIndex         decimal.Decimal
}

// AccrueInterest computes the market totals after blockDelta blocks at the model's current rate
//
// interest = borrow_rate * blocks * total_borrows
// reserves += interest * reserve_factor
// borrow_index *= 1 + borrow_rate * blocks
func AccrueInterest(market *core.Market, model core.IInterestRateModel, cash decimal.Decimal, blockDelta int64) (*Accrual, error) {
	borrowRate := model.BorrowRate(cash, market.TotalBorrows, market.TotalReserves, market.BadDebt)
	if borrowRate.GreaterThan(BorrowRateMax) {
		return nil, core.ErrBorrowRateTooHigh
	}

	simpleInterestFactor := borrowRate.Mul(decimal.NewFromInt(blockDelta))
	interestAccumulated := simpleInterestFactor.Mul(market.TotalBorrows).Truncate(MaxPricision)

	return &Accrual{
		BorrowRate:          borrowRate,
		InterestAccumulated: interestAccumulated,
		TotalBorrows:        market.TotalBorrows.Add(interestAccumulated),
		TotalReserves:       market.TotalReserves.Add(interestAccumulated.Mul(market.ReserveFactor).Truncate(MaxPricision)),
		BorrowIndex:         market.BorrowIndex.Add(simpleInterestFactor.Mul(market.BorrowIndex).Truncate(MaxPricision)),
	}, nil
}

// BorrowBalance borrow balance
// balance = borrow.principal * market.borrow_index / borrow.interest_index
func BorrowBalance(principal, interestIndex, borrowIndex decimal.Decimal) decimal.Decimal {
	if principal.IsZero() || !interestIndex.IsPositive() {
		return decimal.Zero
	}

	return principal.Mul(borrowIndex).Div(interestIndex).Truncate(MaxPricision)
}

// TokensForAmount claim tokens worth amount, rounded up when roundUp is set
func TokensForAmount(amount, exchangeRate decimal.Decimal, roundUp bool) decimal.Decimal {
	tokens := amount.DivRound(exchangeRate, MaxPricision+4)
	if roundUp {
		return number.Ceil(tokens, MaxPricision)
	}

	return tokens.Truncate(MaxPricision)
}

// AmountForTokens underlying worth tokens
func AmountForTokens(tokens, exchangeRate decimal.Decimal) decimal.Decimal {
	return tokens.Mul(exchangeRate).Truncate(MaxPricision)
}

// SeizeTokens claim tokens of the collateral market to seize for repaying actualRepay
// seize_tokens = actual_repay * liquidation_incentive * price_borrowed / (price_collateral * exchange_rate)
func SeizeTokens(actualRepay, liquidationIncentive, priceBorrowed, priceCollateral, exchangeRate decimal.Decimal) (decimal.Decimal, error) {
	if !priceBorrowed.IsPositive() || !priceCollateral.IsPositive() {
		return decimal.Zero, core.ErrInvalidPrice
	}

	if !exchangeRate.IsPositive() {
		return decimal.Zero, core.ErrInvariantViolation
	}

	numerator := liquidationIncentive.Mul(priceBorrowed)
	denominator := priceCollateral.Mul(exchangeRate)
	return actualRepay.Mul(numerator).DivRound(denominator, MaxPricision+4).Truncate(MaxPricision), nil
}

// ProtocolSeizeTokens protocol share of seized tokens
// protocol_seize_tokens = seize_tokens * protocol_seize_share / liquidation_incentive
func ProtocolSeizeTokens(seizeTokens, protocolSeizeShare, liquidationIncentive decimal.Decimal) decimal.Decimal {
	if protocolSeizeShare.IsZero() || !liquidationIncentive.IsPositive() {
		return decimal.Zero
	}

	return seizeTokens.Mul(protocolSeizeShare).DivRound(liquidationIncentive, MaxPricision+4).Truncate(MaxPricision)
}
