package balance

import (
	"context"

	"lendpool/core"
	"lendpool/store"

	"github.com/fox-one/pkg/store/db"
)

type balanceStore struct {
	db *db.DB
}

// New new balance store
func New(db *db.DB) core.IBalanceStore {
	return &balanceStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Balance{})
		if err := tx.AutoMigrate(core.Balance{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *balanceStore) Save(ctx context.Context, tx *db.DB, balance *core.Balance) error {
	return store.SaveVersioned(tx, balance, balance.Version, map[string]interface{}{
		"asset_id": balance.AssetID,
		"account":  balance.Account,
	})
}

func (s *balanceStore) ListByAssets(ctx context.Context, assetIDs []string) ([]*core.Balance, error) {
	var balances []*core.Balance
	query := s.db.View()
	if len(assetIDs) > 0 {
		query = query.Where("asset_id in (?)", assetIDs)
	}

	if err := query.Find(&balances).Error; err != nil {
		return nil, err
	}

	return balances, nil
}
