package core

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Supply claim token balance of an account in a market
type Supply struct {
	PoolID  string          `sql:"size:36;PRIMARY_KEY" json:"pool_id"`
	Symbol  string          `sql:"size:20;PRIMARY_KEY" json:"symbol"`
	Account string          `sql:"size:36;PRIMARY_KEY" json:"account"`
	Tokens  decimal.Decimal `sql:"type:decimal(38,18)" json:"tokens"`
	Version int64           `sql:"default:0" json:"version"`
}

// ISupplyStore supply store interface
type ISupplyStore interface {
	Save(ctx context.Context, tx *db.DB, supply *Supply) error
	ListByPool(ctx context.Context, poolID string) ([]*Supply, error)
}
