package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// Price usd price of an asset at a block
type Price struct {
	ID          int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	AssetID     string          `sql:"size:36;unique_index:idx_prices" json:"asset_id,omitempty"`
	BlockNumber int64           `sql:"default:0;unique_index:idx_prices" json:"block_number,omitempty"`
	Price       decimal.Decimal `sql:"type:decimal(38,18)" json:"price,omitempty"`
	// raw tickers the price was computed from
	Content   types.JSONText `sql:"type:varchar(1024)" json:"content,omitempty"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
}

// PriceTicker price ticker
type PriceTicker struct {
	Provider string          `json:"provider,omitempty"`
	AssetID  string          `json:"asset_id,omitempty"`
	Symbol   string          `json:"symbol,omitempty"`
	Price    decimal.Decimal `json:"price,omitempty"`
}

// IPriceStore price store interface
type IPriceStore interface {
	Create(ctx context.Context, tx *db.DB, price *Price) error
	// FindByAssetBlock reports whether a price was saved for the block
	FindByAssetBlock(ctx context.Context, assetID string, blockNumber int64) (*Price, bool, error)
	FindLatest(ctx context.Context, assetID string) (*Price, error)
}

// IPriceOracle usd price source consulted by the risk controller
type IPriceOracle interface {
	// GetPrice returns the usd price of one unit of the asset, zero when unknown
	GetPrice(ctx context.Context, assetID string) (decimal.Decimal, error)
	// UpdatePrice refreshes the price before it backs a solvency decision
	UpdatePrice(ctx context.Context, assetID string) error
}

// IPriceTickerService pulls tickers from the external price feed
type IPriceTickerService interface {
	PullPriceTicker(ctx context.Context, assetID string, t time.Time) (*PriceTicker, error)
	PullAllPriceTickers(ctx context.Context, t time.Time) ([]*PriceTicker, error)
}
