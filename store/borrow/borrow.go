package borrow

import (
	"context"

	"lendpool/core"
	"lendpool/store"

	"github.com/fox-one/pkg/store/db"
)

type borrowStore struct {
	db *db.DB
}

// New new borrow store
func New(db *db.DB) core.IBorrowStore {
	return &borrowStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Borrow{})
		if err := tx.AutoMigrate(core.Borrow{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *borrowStore) Save(ctx context.Context, tx *db.DB, borrow *core.Borrow) error {
	return store.SaveVersioned(tx, borrow, borrow.Version, map[string]interface{}{
		"pool_id": borrow.PoolID,
		"symbol":  borrow.Symbol,
		"account": borrow.Account,
	})
}

func (s *borrowStore) ListByPool(ctx context.Context, poolID string) ([]*core.Borrow, error) {
	var borrows []*core.Borrow
	query := s.db.View()
	if poolID != "" {
		query = query.Where("pool_id=?", poolID)
	}

	if e := query.Find(&borrows).Error; e != nil {
		return nil, e
	}

	return borrows, nil
}
