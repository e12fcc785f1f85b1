package core

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// RateModelKind interest rate model family
type RateModelKind string

const (
	// RateModelJump jump rate model with a kink
	RateModelJump RateModelKind = "jump"
	// RateModelWhitePaper linear base + multiplier model
	RateModelWhitePaper RateModelKind = "whitepaper"
)

// Market one asset's ledger inside a pool
type Market struct {
	PoolID  string `sql:"size:36;PRIMARY_KEY" json:"pool_id"`
	Symbol  string `sql:"size:20;PRIMARY_KEY" json:"symbol"`
	AssetID string `sql:"size:36" json:"asset_id"`
	// custody address of the market in the balance book, holds the cash
	Address string `sql:"size:36" json:"address"`
	// 已铸造的 claim token 数量
	TotalSupply  decimal.Decimal `sql:"type:decimal(38,18)" json:"total_supply"`
	TotalBorrows decimal.Decimal `sql:"type:decimal(38,18)" json:"total_borrows"`
	// 保留金
	TotalReserves decimal.Decimal `sql:"type:decimal(38,18)" json:"total_reserves"`
	BadDebt       decimal.Decimal `sql:"type:decimal(38,18)" json:"bad_debt"`
	// 初始兑换率
	InitialExchangeRate decimal.Decimal `sql:"type:decimal(38,18)" json:"initial_exchange_rate"`
	// 平台保留金率 [0, 1]
	ReserveFactor decimal.Decimal `sql:"type:decimal(38,18)" json:"reserve_factor"`
	// share of seized claim tokens kept as reserves
	ProtocolSeizeShare decimal.Decimal `sql:"type:decimal(38,18)" json:"protocol_seize_share"`
	RateModel          RateModelKind   `sql:"size:16" json:"rate_model"`
	// per year
	BaseRate decimal.Decimal `sql:"type:decimal(38,18)" json:"base_rate"`
	// The multiplier of utilization rate that gives the slope of the interest rate. per year
	Multiplier decimal.Decimal `sql:"type:decimal(38,18)" json:"multiplier"`
	// The multiplier after hitting a specified utilization point. per year
	JumpMultiplier decimal.Decimal `sql:"type:decimal(38,18)" json:"jump_multiplier"`
	Kink           decimal.Decimal `sql:"type:decimal(38,18)" json:"kink"`
	BorrowIndex    decimal.Decimal `sql:"type:decimal(38,18)" json:"borrow_index"`
	AccrualBlock   int64           `json:"accrual_block"`
	Version        int64           `sql:"default:0" json:"version"`
}

// MarketSnapshot market figures at the time of the call
type MarketSnapshot struct {
	Market
	Cash               decimal.Decimal `json:"cash"`
	ExchangeRate       decimal.Decimal `json:"exchange_rate"`
	UtilizationRate    decimal.Decimal `json:"utilization_rate"`
	BorrowRatePerBlock decimal.Decimal `json:"borrow_rate_per_block"`
	SupplyRatePerBlock decimal.Decimal `json:"supply_rate_per_block"`
	BorrowRate         decimal.Decimal `json:"borrow_rate"`
	SupplyRate         decimal.Decimal `json:"supply_rate"`
	Risk               MarketRisk      `json:"risk"`
}

// RateModelParams yearly interest rate model parameters
type RateModelParams struct {
	Kind           RateModelKind   `json:"kind"`
	BaseRate       decimal.Decimal `json:"base_rate"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	JumpMultiplier decimal.Decimal `json:"jump_multiplier"`
	Kink           decimal.Decimal `json:"kink"`
}

// MarketParams listing parameters of a new market
type MarketParams struct {
	Symbol               string          `json:"symbol"`
	AssetID              string          `json:"asset_id"`
	InitialExchangeRate  decimal.Decimal `json:"initial_exchange_rate"`
	ReserveFactor        decimal.Decimal `json:"reserve_factor"`
	ProtocolSeizeShare   decimal.Decimal `json:"protocol_seize_share"`
	RateModel            RateModelParams `json:"rate_model"`
	CollateralFactor     decimal.Decimal `json:"collateral_factor"`
	LiquidationThreshold decimal.Decimal `json:"liquidation_threshold"`
	SupplyCap            decimal.Decimal `json:"supply_cap"`
	BorrowCap            decimal.Decimal `json:"borrow_cap"`
}

// IInterestRateModel maps pool liquidity to per block rates
type IInterestRateModel interface {
	BorrowRate(cash, borrows, reserves, badDebt decimal.Decimal) decimal.Decimal
	SupplyRate(cash, borrows, reserves, reserveFactor, badDebt decimal.Decimal) decimal.Decimal
}

// IMarketStore market store interface
type IMarketStore interface {
	Save(ctx context.Context, tx *db.DB, market *Market) error
	All(ctx context.Context) ([]*Market, error)
}
