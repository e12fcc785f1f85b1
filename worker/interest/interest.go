package interest

import (
	"context"

	"lendpool/core"
	"lendpool/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"golang.org/x/sync/errgroup"
)

const checkpointKey = "interest_checkpoint"

// Ledger markets the worker accrues
type Ledger interface {
	Pools(ctx context.Context) ([]*core.Pool, error)
	Markets(ctx context.Context, poolID string) ([]*core.MarketSnapshot, error)
	AccrueInterest(ctx context.Context, poolID, symbol string) error
}

// Worker accrues interest of every market once per block
type Worker struct {
	worker.TickWorker
	ledger      Ledger
	blocks      core.IBlockService
	property    property.Store
	concurrency int
}

// New new interest worker, property may be nil when no checkpoint is kept
func New(cfg *core.Config, ledger Ledger, blocks core.IBlockService, property property.Store) *Worker {
	w := &Worker{
		ledger:      ledger,
		blocks:      blocks,
		property:    property,
		concurrency: cfg.Worker.Concurrency,
	}
	w.Delay = cfg.Worker.InterestDelay
	if w.concurrency <= 0 {
		w.concurrency = 1
	}

	return w
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, w.onWork)
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "interest")

	block, err := w.blocks.CurrentBlock(ctx)
	if err != nil {
		log.WithError(err).Errorln("blocks.CurrentBlock")
		return err
	}

	if w.property != nil {
		v, err := w.property.Get(ctx, checkpointKey)
		if err != nil {
			log.WithError(err).Errorln("property.Get", checkpointKey)
			return err
		}

		if v.Int64() >= block {
			return nil
		}
	}

	pools, err := w.ledger.Pools(ctx)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(w.concurrency)
	for _, p := range pools {
		poolID := p.ID
		g.Go(func() error {
			return w.accruePool(ctx, poolID)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if w.property != nil {
		if err := w.property.Save(ctx, checkpointKey, block); err != nil {
			log.WithError(err).Errorln("property.Save", checkpointKey)
			return err
		}
	}

	log.Debugf("markets accrued to block %d", block)
	return nil
}

func (w *Worker) accruePool(ctx context.Context, poolID string) error {
	log := logger.FromContext(ctx).WithField("pool", poolID)

	markets, err := w.ledger.Markets(ctx, poolID)
	if err != nil {
		log.WithError(err).Errorln("list markets")
		return err
	}

	for _, m := range markets {
		if err := w.ledger.AccrueInterest(ctx, poolID, m.Symbol); err != nil {
			log.WithError(err).WithField("market", m.Symbol).Errorln("accrue interest")
			return err
		}
	}

	return nil
}
