package oracle

import (
	"context"
	"testing"
	"time"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPrices struct {
	latest map[string]decimal.Decimal
	reads  int
}

func (s *memoryPrices) Create(ctx context.Context, tx *db.DB, price *core.Price) error {
	s.latest[price.AssetID] = price.Price
	return nil
}

func (s *memoryPrices) FindByAssetBlock(ctx context.Context, assetID string, blockNumber int64) (*core.Price, bool, error) {
	return nil, false, nil
}

func (s *memoryPrices) FindLatest(ctx context.Context, assetID string) (*core.Price, error) {
	s.reads++
	price, ok := s.latest[assetID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	return &core.Price{AssetID: assetID, Price: price}, nil
}

func TestPriceOracle(t *testing.T) {
	ctx := context.Background()
	prices := &memoryPrices{latest: map[string]decimal.Decimal{
		"btc": decimal.NewFromInt(60000),
	}}
	oracle := New(prices, 16, time.Hour)

	price, err := oracle.GetPrice(ctx, "btc")
	require.NoError(t, err)
	assert.Equal(t, "60000", price.String())

	_, err = oracle.GetPrice(ctx, "btc")
	require.NoError(t, err)
	assert.Equal(t, 1, prices.reads, "second read is served from the cache")

	prices.latest["btc"] = decimal.NewFromInt(61000)
	price, _ = oracle.GetPrice(ctx, "btc")
	assert.Equal(t, "60000", price.String(), "stale until updated")

	require.NoError(t, oracle.UpdatePrice(ctx, "btc"))
	price, _ = oracle.GetPrice(ctx, "btc")
	assert.Equal(t, "61000", price.String())

	price, err = oracle.GetPrice(ctx, "doge")
	require.NoError(t, err)
	assert.True(t, price.IsZero())
}

func TestPriceOracleExpire(t *testing.T) {
	ctx := context.Background()
	prices := &memoryPrices{latest: map[string]decimal.Decimal{
		"eth": decimal.NewFromInt(3000),
	}}
	oracle := New(prices, 16, time.Millisecond)

	_, err := oracle.GetPrice(ctx, "eth")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	prices.latest["eth"] = decimal.NewFromInt(3100)

	price, err := oracle.GetPrice(ctx, "eth")
	require.NoError(t, err)
	assert.Equal(t, "3100", price.String())
}
