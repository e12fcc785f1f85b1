package core

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Balance underlying asset balance of an account or a market address
type Balance struct {
	AssetID string          `sql:"size:36;PRIMARY_KEY" json:"asset_id"`
	Account string          `sql:"size:36;PRIMARY_KEY" json:"account"`
	Amount  decimal.Decimal `sql:"type:decimal(38,18)" json:"amount"`
	Version int64           `sql:"default:0" json:"version"`
}

// IBalanceStore balance store interface
type IBalanceStore interface {
	Save(ctx context.Context, tx *db.DB, balance *Balance) error
	ListByAssets(ctx context.Context, assetIDs []string) ([]*Balance, error)
}

// ITransferHook observes every underlying transfer made by a pool.
// It runs inside the calling operation and its error aborts the operation.
type ITransferHook interface {
	OnTransfer(ctx context.Context, assetID, from, to string, amount decimal.Decimal) error
}
