package interest

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"lendpool/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlocks struct{}

func (fakeBlocks) GetBlock(ctx context.Context, t time.Time) (int64, error) { return 7, nil }
func (fakeBlocks) CurrentBlock(ctx context.Context) (int64, error)         { return 7, nil }

type fakeLedger struct {
	mu      sync.Mutex
	accrued []string
}

func (l *fakeLedger) Pools(ctx context.Context) ([]*core.Pool, error) {
	return []*core.Pool{{ID: "p1"}, {ID: "p2"}}, nil
}

func (l *fakeLedger) Markets(ctx context.Context, poolID string) ([]*core.MarketSnapshot, error) {
	return []*core.MarketSnapshot{
		{Market: core.Market{PoolID: poolID, Symbol: "BTC"}},
		{Market: core.Market{PoolID: poolID, Symbol: "ETH"}},
	}, nil
}

func (l *fakeLedger) AccrueInterest(ctx context.Context, poolID, symbol string) error {
	l.mu.Lock()
	l.accrued = append(l.accrued, poolID+"/"+symbol)
	l.mu.Unlock()
	return nil
}

func TestAccrueEveryMarket(t *testing.T) {
	ledger := &fakeLedger{}
	w := New(&core.Config{Worker: core.Worker{Concurrency: 2}}, ledger, fakeBlocks{}, nil)

	require.NoError(t, w.onWork(context.Background()))

	sort.Strings(ledger.accrued)
	assert.Equal(t, []string{"p1/BTC", "p1/ETH", "p2/BTC", "p2/ETH"}, ledger.accrued)
}
