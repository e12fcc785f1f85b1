package price

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

type priceStore struct {
	db *db.DB
}

// New price store, one row per asset and block
func New(db *db.DB) core.IPriceStore {
	return &priceStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Price{})
		return tx.AutoMigrate(core.Price{}).Error
	})
}

// Create keeps the first price saved for the asset and block
func (s *priceStore) Create(ctx context.Context, tx *db.DB, price *core.Price) error {
	err := tx.Update().
		Where("asset_id=? and block_number=?", price.AssetID, price.BlockNumber).
		FirstOrCreate(price).Error
	return errors.Wrapf(err, "save price of %s at %d", price.AssetID, price.BlockNumber)
}

func (s *priceStore) FindByAssetBlock(ctx context.Context, assetID string, blockNumber int64) (*core.Price, bool, error) {
	var price core.Price
	err := s.db.View().Where("asset_id=? and block_number=?", assetID, blockNumber).First(&price).Error
	switch {
	case gorm.IsRecordNotFoundError(err):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	return &price, true, nil
}

// FindLatest returns gorm.ErrRecordNotFound unwrapped when the asset was never priced
func (s *priceStore) FindLatest(ctx context.Context, assetID string) (*core.Price, error) {
	var price core.Price
	if err := s.db.View().Where("asset_id=?", assetID).Order("block_number DESC").First(&price).Error; err != nil {
		return nil, err
	}

	return &price, nil
}
