package oracle

import (
	"context"
	"time"

	"lendpool/core"

	"github.com/bluele/gcache"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

type priceOracle struct {
	prices core.IPriceStore
	cache  gcache.Cache
	ttl    time.Duration
	sf     *singleflight.Group
}

// New price oracle serving the latest stored price of each asset from an LRU cache
func New(prices core.IPriceStore, size int, ttl time.Duration) core.IPriceOracle {
	return &priceOracle{
		prices: prices,
		cache:  gcache.New(size).LRU().Build(),
		ttl:    ttl,
		sf:     &singleflight.Group{},
	}
}

// UpdatePrice reloads the latest price of the asset into the cache
func (o *priceOracle) UpdatePrice(ctx context.Context, assetID string) error {
	_, err, _ := o.sf.Do(assetID, func() (interface{}, error) {
		price, err := o.prices.FindLatest(ctx, assetID)
		if err != nil {
			if gorm.IsRecordNotFoundError(err) {
				o.cache.Remove(assetID)
				return decimal.Zero, nil
			}

			return nil, err
		}

		if err := o.cache.SetWithExpire(assetID, price.Price, o.ttl); err != nil {
			return nil, err
		}

		return price.Price, nil
	})

	return err
}

// GetPrice zero when no price was ever stored for the asset
func (o *priceOracle) GetPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	if v, err := o.cache.Get(assetID); err == nil {
		return v.(decimal.Decimal), nil
	}

	if err := o.UpdatePrice(ctx, assetID); err != nil {
		return decimal.Zero, err
	}

	if v, err := o.cache.Get(assetID); err == nil {
		return v.(decimal.Decimal), nil
	}

	return decimal.Zero, nil
}
