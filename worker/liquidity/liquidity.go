package liquidity

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/metrics"
	"lendpool/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Ledger borrowers and their solvency
type Ledger interface {
	Pools(ctx context.Context) ([]*core.Pool, error)
	Borrowers(ctx context.Context, poolID string) ([]string, error)
	SolvencyState(ctx context.Context, poolID, account string) (core.SolvencyState, *core.AccountLiquidity, error)
}

var states = []core.SolvencyState{
	core.SolvencyHealthy,
	core.SolvencyLiquidatableOrdinary,
	core.SolvencyHealable,
	core.SolvencyFullyLiquidatable,
}

// Worker classifies every borrower and reports the accounts open to liquidation
type Worker struct {
	*worker.BaseJob
	ledger  Ledger
	metrics *metrics.Metrics
}

// New new liquidity worker
func New(cfg *core.Config, ledger Ledger, m *metrics.Metrics) *Worker {
	w := &Worker{
		ledger:  ledger,
		metrics: m,
	}
	w.BaseJob = worker.NewBaseJob(cfg.App.Location, worker.Every(cfg.Worker.LiquidityDelay), w.onWork)

	return w
}

func (w *Worker) onWork(ctx context.Context) error {
	pools, err := w.ledger.Pools(ctx)
	if err != nil {
		return err
	}

	for _, p := range pools {
		if err := w.scan(ctx, p.ID); err != nil {
			return err
		}
	}

	return nil
}

func (w *Worker) scan(ctx context.Context, poolID string) error {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"worker": "liquidity",
		"pool":   poolID,
	})

	borrowers, err := w.ledger.Borrowers(ctx, poolID)
	if err != nil {
		log.WithError(err).Errorln("list borrowers")
		return err
	}

	counts := make(map[core.SolvencyState]int, len(states))
	for _, account := range borrowers {
		state, liquidity, err := w.ledger.SolvencyState(ctx, poolID, account)
		if err != nil {
			log.WithError(err).WithField("account", account).Warnln("classify")
			continue
		}

		counts[state]++
		if state != core.SolvencyHealthy {
			log.WithFields(logrus.Fields{
				"account":    account,
				"state":      state,
				"collateral": liquidity.TotalCollateral,
				"borrows":    liquidity.Borrows,
				"shortfall":  liquidity.Shortfall,
			}).Infoln("account open to liquidation")
		}
	}

	for _, state := range states {
		w.metrics.SolvencyStates.WithLabelValues(poolID, string(state)).Set(float64(counts[state]))
	}

	return nil
}
