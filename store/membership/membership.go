package membership

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
)

type membershipStore struct {
	db *db.DB
}

// New new membership store
func New(db *db.DB) core.IMembershipStore {
	return &membershipStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Membership{})
		if err := tx.AutoMigrate(core.Membership{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *membershipStore) Replace(ctx context.Context, tx *db.DB, poolID, account string, markets []string) error {
	if err := tx.Update().Where("pool_id=? and account=?", poolID, account).Delete(core.Membership{}).Error; err != nil {
		return err
	}

	for idx, symbol := range markets {
		m := &core.Membership{
			PoolID:  poolID,
			Account: account,
			Symbol:  symbol,
			Seq:     idx,
		}

		if err := tx.Update().Create(m).Error; err != nil {
			return err
		}
	}

	return nil
}

func (s *membershipStore) ListByPool(ctx context.Context, poolID string) ([]*core.Membership, error) {
	var memberships []*core.Membership
	query := s.db.View()
	if poolID != "" {
		query = query.Where("pool_id=?", poolID)
	}

	if err := query.Order("seq ASC").Find(&memberships).Error; err != nil {
		return nil, err
	}

	return memberships, nil
}
