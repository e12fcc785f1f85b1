package liquidity

import (
	"context"
	"testing"

	"lendpool/core"
	"lendpool/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	borrowers map[string]core.SolvencyState
}

func (l *fakeLedger) Pools(ctx context.Context) ([]*core.Pool, error) {
	return []*core.Pool{{ID: "p1"}}, nil
}

func (l *fakeLedger) Borrowers(ctx context.Context, poolID string) ([]string, error) {
	var accounts []string
	for account := range l.borrowers {
		accounts = append(accounts, account)
	}

	return accounts, nil
}

func (l *fakeLedger) SolvencyState(ctx context.Context, poolID, account string) (core.SolvencyState, *core.AccountLiquidity, error) {
	return l.borrowers[account], &core.AccountLiquidity{
		TotalCollateral: decimal.NewFromInt(1),
		Borrows:         decimal.NewFromInt(1),
		Shortfall:       decimal.Zero,
	}, nil
}

func TestScan(t *testing.T) {
	m := metrics.Nop()
	w := New(&core.Config{}, &fakeLedger{borrowers: map[string]core.SolvencyState{
		"a": core.SolvencyHealthy,
		"b": core.SolvencyHealthy,
		"c": core.SolvencyHealable,
		"d": core.SolvencyFullyLiquidatable,
	}}, m)

	require.NoError(t, w.onWork(context.Background()))

	gauge := func(state core.SolvencyState) float64 {
		return testutil.ToFloat64(m.SolvencyStates.WithLabelValues("p1", string(state)))
	}

	assert.Equal(t, float64(2), gauge(core.SolvencyHealthy))
	assert.Equal(t, float64(0), gauge(core.SolvencyLiquidatableOrdinary))
	assert.Equal(t, float64(1), gauge(core.SolvencyHealable))
	assert.Equal(t, float64(1), gauge(core.SolvencyFullyLiquidatable))
}
