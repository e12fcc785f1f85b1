package supply

import (
	"context"

	"lendpool/core"
	"lendpool/store"

	"github.com/fox-one/pkg/store/db"
)

type supplyStore struct {
	db *db.DB
}

// New new supply store
func New(db *db.DB) core.ISupplyStore {
	return &supplyStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Supply{})
		if err := tx.AutoMigrate(core.Supply{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *supplyStore) Save(ctx context.Context, tx *db.DB, supply *core.Supply) error {
	return store.SaveVersioned(tx, supply, supply.Version, map[string]interface{}{
		"pool_id": supply.PoolID,
		"symbol":  supply.Symbol,
		"account": supply.Account,
	})
}

func (s *supplyStore) ListByPool(ctx context.Context, poolID string) ([]*core.Supply, error) {
	var supplies []*core.Supply
	query := s.db.View()
	if poolID != "" {
		query = query.Where("pool_id=?", poolID)
	}

	if e := query.Find(&supplies).Error; e != nil {
		return nil, e
	}

	return supplies, nil
}
