package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Pool isolated lending pool, the risk configuration shared by its markets
type Pool struct {
	ID    string `sql:"size:36;PRIMARY_KEY" json:"id"`
	Name  string `sql:"size:64;unique_index:pool_name_idx" json:"name"`
	Owner string `sql:"size:36" json:"owner"`
	// 单次清算可偿还的最大借款比例 [0.05, 0.9]
	CloseFactor decimal.Decimal `sql:"type:decimal(38,18)" json:"close_factor"`
	// 清算激励因子 >= 1
	LiquidationIncentive decimal.Decimal `sql:"type:decimal(38,18)" json:"liquidation_incentive"`
	// USD value under which only batch liquidation is allowed
	MinLiquidatableCollateral decimal.Decimal `sql:"type:decimal(38,18)" json:"min_liquidatable_collateral"`
	MaxLoopsLimit             int             `sql:"default:16" json:"max_loops_limit"`
	ShortfallAuction          string          `sql:"size:36" json:"shortfall_auction"`
	Oracle                    string          `sql:"size:64" json:"oracle"`
	Version                   int64           `sql:"default:0" json:"version"`
	CreatedAt                 time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt                 time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// MarketRisk per market risk parameters owned by the pool controller
type MarketRisk struct {
	PoolID string `sql:"size:36;PRIMARY_KEY" json:"pool_id"`
	Symbol string `sql:"size:20;PRIMARY_KEY" json:"symbol"`
	Listed bool   `json:"listed"`
	// 抵押因子 = 可借贷价值 / 抵押资产价值 [0, 0.9]
	CollateralFactor decimal.Decimal `sql:"type:decimal(38,18)" json:"collateral_factor"`
	// 清算阈值 [collateral_factor, 1]
	LiquidationThreshold decimal.Decimal `sql:"type:decimal(38,18)" json:"liquidation_threshold"`
	// negative means no cap
	SupplyCap decimal.Decimal `sql:"type:decimal(38,18)" json:"supply_cap"`
	BorrowCap decimal.Decimal `sql:"type:decimal(38,18)" json:"borrow_cap"`
	Version   int64           `sql:"default:0" json:"version"`
}

// NoCap cap sentinel
var NoCap = decimal.NewFromInt(-1)

// IsUncapped reports whether cap is the no cap sentinel
func IsUncapped(cap decimal.Decimal) bool {
	return cap.IsNegative()
}

// AccessScope admin entry point name
type AccessScope string

const (
	ScopeSetCloseFactor               AccessScope = "set_close_factor"
	ScopeSetCollateralFactor          AccessScope = "set_collateral_factor"
	ScopeSetLiquidationIncentive      AccessScope = "set_liquidation_incentive"
	ScopeSetMinLiquidatableCollateral AccessScope = "set_min_liquidatable_collateral"
	ScopeSetMarketSupplyCaps          AccessScope = "set_market_supply_caps"
	ScopeSetMarketBorrowCaps          AccessScope = "set_market_borrow_caps"
	ScopeSetActionsPaused             AccessScope = "set_actions_paused"
	ScopeSetMaxLoopsLimit             AccessScope = "set_max_loops_limit"
	ScopeSetPriceOracle               AccessScope = "set_price_oracle"
	ScopeSetShortfallAuction          AccessScope = "set_shortfall_auction"
	ScopeSetReserveFactor             AccessScope = "set_reserve_factor"
	ScopeSetProtocolSeizeShare        AccessScope = "set_protocol_seize_share"
	ScopeSetInterestRateModel         AccessScope = "set_interest_rate_model"
	ScopeSupportMarket                AccessScope = "support_market"
	ScopeReduceReserves               AccessScope = "reduce_reserves"
)

func (s AccessScope) String() string {
	return string(s)
}

// CheckScope check scope
func CheckScope(scope string) bool {
	switch AccessScope(scope) {
	case ScopeSetCloseFactor, ScopeSetCollateralFactor, ScopeSetLiquidationIncentive,
		ScopeSetMinLiquidatableCollateral, ScopeSetMarketSupplyCaps, ScopeSetMarketBorrowCaps,
		ScopeSetActionsPaused, ScopeSetMaxLoopsLimit, ScopeSetPriceOracle, ScopeSetShortfallAuction,
		ScopeSetReserveFactor, ScopeSetProtocolSeizeShare, ScopeSetInterestRateModel,
		ScopeSupportMarket, ScopeReduceReserves:
		return true
	}

	return false
}

// Permission grant of an admin scope to a non-owner account
type Permission struct {
	ID      uint64      `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	PoolID  string      `sql:"size:36;unique_index:idx_permissions_pool_account_scope" json:"pool_id"`
	Account string      `sql:"size:36;unique_index:idx_permissions_pool_account_scope" json:"account"`
	Scope   AccessScope `sql:"size:64;unique_index:idx_permissions_pool_account_scope" json:"scope"`
	// revoked grants are kept with Granted=false so a changeset can express removal
	Granted bool `json:"granted"`
}

// IPoolStore pool store interface
//
// Save creates the row when pool.Version is 1 and otherwise updates the row
// stored at pool.Version-1, the same convention every versioned store follows.
type IPoolStore interface {
	Save(ctx context.Context, tx *db.DB, pool *Pool) error
	All(ctx context.Context) ([]*Pool, error)
}

// IMarketRiskStore market risk store interface
type IMarketRiskStore interface {
	Save(ctx context.Context, tx *db.DB, risk *MarketRisk) error
	ListByPool(ctx context.Context, poolID string) ([]*MarketRisk, error)
}

// IPermissionStore permission store interface
type IPermissionStore interface {
	Save(ctx context.Context, tx *db.DB, perm *Permission) error
	ListByPool(ctx context.Context, poolID string) ([]*Permission, error)
}
