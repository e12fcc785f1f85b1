package ledger

import (
	"context"
	"testing"

	"lendpool/core"
	"lendpool/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := Memory()

	require.NoError(t, s.Persist(ctx, &core.Changeset{
		Pools:    []*core.Pool{{ID: "p1", Name: "main", Version: 1}},
		Balances: []*core.Balance{{AssetID: "usdc", Account: "alice", Amount: decimal.NewFromInt(10), Version: 1}},
		Memberships: []*core.AccountMarkets{
			{PoolID: "p1", Account: "alice", Markets: []string{"ETH", "USDC"}},
		},
		Transactions: []*core.Transaction{{TraceID: "t1"}},
	}))

	ls, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, ls.Pools, 1)
	require.Len(t, ls.Memberships, 2)
	assert.Equal(t, "ETH", ls.Memberships[0].Symbol)
	assert.Equal(t, 1, ls.Memberships[1].Seq)

	// stale version
	err = s.Persist(ctx, &core.Changeset{
		Pools:    []*core.Pool{{ID: "p1", Name: "main", Version: 3}},
		Balances: []*core.Balance{{AssetID: "usdc", Account: "alice", Amount: decimal.NewFromInt(5), Version: 2}},
	})
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	ls, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10", ls.Balances[0].Amount.String(), "a conflicting changeset writes nothing")

	require.NoError(t, s.Persist(ctx, &core.Changeset{
		Balances: []*core.Balance{{AssetID: "usdc", Account: "alice", Amount: decimal.NewFromInt(5), Version: 2}},
		Memberships: []*core.AccountMarkets{
			{PoolID: "p1", Account: "alice", Markets: []string{"USDC"}},
		},
	}))

	ls, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5", ls.Balances[0].Amount.String())
	require.Len(t, ls.Memberships, 1)
	assert.Equal(t, "USDC", ls.Memberships[0].Symbol)

	s.FailNext(assert.AnError)
	err = s.Persist(ctx, &core.Changeset{Transactions: []*core.Transaction{{TraceID: "t2"}}})
	assert.ErrorIs(t, err, assert.AnError)

	assert.Len(t, s.Changesets(), 2)
	assert.Len(t, s.Transactions(), 1)
}
