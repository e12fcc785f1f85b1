package core

import (
	"github.com/shopspring/decimal"
)

// Weight selects the per market weight of a solvency snapshot
type Weight int

const (
	// WeightCollateralFactor borrowing power checks
	WeightCollateralFactor Weight = iota
	// WeightLiquidationThreshold liquidatability checks
	WeightLiquidationThreshold
)

func (w Weight) String() string {
	switch w {
	case WeightLiquidationThreshold:
		return "liquidation"
	default:
		return "collateral"
	}
}

// ParseWeight parse weight name
func ParseWeight(s string) (Weight, bool) {
	switch s {
	case "", "collateral", "collateral_factor":
		return WeightCollateralFactor, true
	case "liquidation", "liquidation_threshold":
		return WeightLiquidationThreshold, true
	}

	return WeightCollateralFactor, false
}

// Of returns the weight of the market risk
func (w Weight) Of(risk *MarketRisk) decimal.Decimal {
	if w == WeightLiquidationThreshold {
		return risk.LiquidationThreshold
	}

	return risk.CollateralFactor
}

// AccountSnapshot account position in one market
type AccountSnapshot struct {
	Symbol        string          `json:"symbol"`
	Tokens        decimal.Decimal `json:"tokens"`
	BorrowBalance decimal.Decimal `json:"borrow_balance"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
}

// AccountLiquidity usd solvency snapshot of an account
type AccountLiquidity struct {
	Weight             Weight          `json:"weight"`
	TotalCollateral    decimal.Decimal `json:"total_collateral"`
	WeightedCollateral decimal.Decimal `json:"weighted_collateral"`
	Borrows            decimal.Decimal `json:"borrows"`
	Effects            decimal.Decimal `json:"effects"`
	Liquidity          decimal.Decimal `json:"liquidity"`
	Shortfall          decimal.Decimal `json:"shortfall"`
}

// SolvencyState liquidation lifecycle state of an account
type SolvencyState string

const (
	SolvencyHealthy              SolvencyState = "HEALTHY"
	SolvencyLiquidatableOrdinary SolvencyState = "LIQUIDATABLE_ORDINARY"
	SolvencyHealable             SolvencyState = "HEALABLE"
	SolvencyFullyLiquidatable    SolvencyState = "FULLY_LIQUIDATABLE"
)

// LiquidationOrder one step of a whole account liquidation
type LiquidationOrder struct {
	BorrowSymbol     string          `json:"borrow_symbol"`
	CollateralSymbol string          `json:"collateral_symbol"`
	RepayAmount      decimal.Decimal `json:"repay_amount"`
}
