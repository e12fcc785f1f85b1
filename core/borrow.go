package core

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Borrow borrow snapshot of an account in a market
//
// balance = principal * market.borrow_index / interest_index
type Borrow struct {
	PoolID        string          `sql:"size:36;PRIMARY_KEY" json:"pool_id"`
	Symbol        string          `sql:"size:20;PRIMARY_KEY" json:"symbol"`
	Account       string          `sql:"size:36;PRIMARY_KEY" json:"account"`
	Principal     decimal.Decimal `sql:"type:decimal(38,18)" json:"principal"`
	InterestIndex decimal.Decimal `sql:"type:decimal(38,18);default:1" json:"interest_index"`
	Version       int64           `sql:"default:0" json:"version"`
}

// IBorrowStore borrow store interface
type IBorrowStore interface {
	Save(ctx context.Context, tx *db.DB, borrow *Borrow) error
	ListByPool(ctx context.Context, poolID string) ([]*Borrow, error)
}
