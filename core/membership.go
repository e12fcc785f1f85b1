package core

import (
	"context"

	"github.com/fox-one/pkg/store/db"
)

// Membership an account's entered markets, the claim tokens of these count as collateral
type Membership struct {
	PoolID  string `sql:"size:36;PRIMARY_KEY" json:"pool_id"`
	Account string `sql:"size:36;PRIMARY_KEY" json:"account"`
	Symbol  string `sql:"size:20;PRIMARY_KEY" json:"symbol"`
	// entry order, kept so snapshots iterate markets the same way every time
	Seq int `json:"seq"`
}

// IMembershipStore membership store interface
type IMembershipStore interface {
	// Replace replaces every membership row of the account with markets
	Replace(ctx context.Context, tx *db.DB, poolID, account string, markets []string) error
	ListByPool(ctx context.Context, poolID string) ([]*Membership, error)
}
