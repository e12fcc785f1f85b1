package compound

import (
	"lendpool/core"

	"github.com/shopspring/decimal"
)

var (
	// BlocksPerYear blocks per year at 15 seconds per block
	BlocksPerYear = decimal.NewFromInt(2102400)
	// BorrowRateMax maximum borrow rate per block that can ever be applied
	BorrowRateMax = decimal.New(5, -4)
	// CloseFactorMin min of close factor
	CloseFactorMin = decimal.NewFromFloat(0.05)
	// CloseFactorMax max of close factor
	CloseFactorMax = decimal.NewFromFloat(0.9)
	// CollateralFactorMax max of collateral factor
	CollateralFactorMax = decimal.NewFromFloat(0.9)
	// LiquidationIncentiveMin liquidation incentive must be no less than this value
	LiquidationIncentiveMin = decimal.NewFromInt(1)
	// MaxPricision fixed point digits
	MaxPricision int32 = 18
)

var one = decimal.NewFromInt(1)

// UtilizationRate utilization rate
// utilization_rate = (borrows + bad_debt) / (cash + borrows + bad_debt - reserves)
func UtilizationRate(cash, borrows, reserves, badDebt decimal.Decimal) decimal.Decimal {
	if borrows.Add(badDebt).IsZero() {
		return decimal.Zero
	}

	total := cash.Add(borrows).Add(badDebt).Sub(reserves)
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return borrows.Add(badDebt).DivRound(total, MaxPricision+4).Truncate(MaxPricision)
}

// GetExchangeRate exchange rate
// exchange_rate = (cash + total_borrows + bad_debt - reserves) / total_supply
func GetExchangeRate(cash, totalBorrows, totalReserves, badDebt, totalSupply, initialExchangeRate decimal.Decimal) decimal.Decimal {
	if totalSupply.IsZero() {
		return initialExchangeRate
	}

	return cash.Add(totalBorrows).Add(badDebt).Sub(totalReserves).DivRound(totalSupply, MaxPricision+4).Truncate(MaxPricision)
}

// PerBlock converts a yearly rate to a per block rate
func PerBlock(yearly decimal.Decimal) decimal.Decimal {
	return yearly.DivRound(BlocksPerYear, MaxPricision+4).Truncate(MaxPricision)
}

// PerYear converts a per block rate to a yearly rate
func PerYear(perBlock decimal.Decimal) decimal.Decimal {
	return perBlock.Mul(BlocksPerYear).Truncate(MaxPricision)
}

// JumpRateModel borrow rate grows by multiplier until kink, by jump multiplier above it
type JumpRateModel struct {
	BaseRatePerBlock       decimal.Decimal
	MultiplierPerBlock     decimal.Decimal
	JumpMultiplierPerBlock decimal.Decimal
	Kink                   decimal.Decimal
}

// NewJumpRateModel from yearly parameters
func NewJumpRateModel(baseRate, multiplier, jumpMultiplier, kink decimal.Decimal) *JumpRateModel {
	return &JumpRateModel{
		BaseRatePerBlock:       PerBlock(baseRate),
		MultiplierPerBlock:     PerBlock(multiplier),
		JumpMultiplierPerBlock: PerBlock(jumpMultiplier),
		Kink:                   kink,
	}
}

// BorrowRate borrow rate per block
func (m *JumpRateModel) BorrowRate(cash, borrows, reserves, badDebt decimal.Decimal) decimal.Decimal {
	util := UtilizationRate(cash, borrows, reserves, badDebt)
	if m.Kink.IsZero() || util.LessThanOrEqual(m.Kink) {
		return util.Mul(m.MultiplierPerBlock).Add(m.BaseRatePerBlock).Truncate(MaxPricision)
	}

	normalRate := m.Kink.Mul(m.MultiplierPerBlock).Add(m.BaseRatePerBlock)
	excessUtil := util.Sub(m.Kink)
	return excessUtil.Mul(m.JumpMultiplierPerBlock).Add(normalRate).Truncate(MaxPricision)
}

// SupplyRate supply rate per block
func (m *JumpRateModel) SupplyRate(cash, borrows, reserves, reserveFactor, badDebt decimal.Decimal) decimal.Decimal {
	return supplyRate(m, cash, borrows, reserves, reserveFactor, badDebt)
}

// WhitePaperModel borrow rate = base + utilization * multiplier
type WhitePaperModel struct {
	BaseRatePerBlock   decimal.Decimal
	MultiplierPerBlock decimal.Decimal
}

// NewWhitePaperModel from yearly parameters
func NewWhitePaperModel(baseRate, multiplier decimal.Decimal) *WhitePaperModel {
	return &WhitePaperModel{
		BaseRatePerBlock:   PerBlock(baseRate),
		MultiplierPerBlock: PerBlock(multiplier),
	}
}

// BorrowRate borrow rate per block
func (m *WhitePaperModel) BorrowRate(cash, borrows, reserves, badDebt decimal.Decimal) decimal.Decimal {
	util := UtilizationRate(cash, borrows, reserves, badDebt)
	return util.Mul(m.MultiplierPerBlock).Add(m.BaseRatePerBlock).Truncate(MaxPricision)
}

// SupplyRate supply rate per block
func (m *WhitePaperModel) SupplyRate(cash, borrows, reserves, reserveFactor, badDebt decimal.Decimal) decimal.Decimal {
	return supplyRate(m, cash, borrows, reserves, reserveFactor, badDebt)
}

func supplyRate(m core.IInterestRateModel, cash, borrows, reserves, reserveFactor, badDebt decimal.Decimal) decimal.Decimal {
	borrowRate := m.BorrowRate(cash, borrows, reserves, badDebt)
	rateToPool := borrowRate.Mul(one.Sub(reserveFactor))
	return UtilizationRate(cash, borrows, reserves, badDebt).Mul(rateToPool).Truncate(MaxPricision)
}

// NewRateModel builds the rate model configured on the market
func NewRateModel(market *core.Market) core.IInterestRateModel {
	if market.RateModel == core.RateModelWhitePaper {
		return NewWhitePaperModel(market.BaseRate, market.Multiplier)
	}

	return NewJumpRateModel(market.BaseRate, market.Multiplier, market.JumpMultiplier, market.Kink)
}
