package risk

import (
	"context"

	"lendpool/core"
	"lendpool/store"

	"github.com/fox-one/pkg/store/db"
)

type riskStore struct {
	db *db.DB
}

// New new market risk store
func New(db *db.DB) core.IMarketRiskStore {
	return &riskStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.MarketRisk{})
		if err := tx.AutoMigrate(core.MarketRisk{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *riskStore) Save(ctx context.Context, tx *db.DB, risk *core.MarketRisk) error {
	return store.SaveVersioned(tx, risk, risk.Version, map[string]interface{}{
		"pool_id": risk.PoolID,
		"symbol":  risk.Symbol,
	})
}

func (s *riskStore) ListByPool(ctx context.Context, poolID string) ([]*core.MarketRisk, error) {
	var risks []*core.MarketRisk
	query := s.db.View()
	if poolID != "" {
		query = query.Where("pool_id=?", poolID)
	}

	if err := query.Find(&risks).Error; err != nil {
		return nil, err
	}

	return risks, nil
}
