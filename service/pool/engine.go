package pool

import (
	"context"
	"sort"
	"sync"
	"time"

	"lendpool/core"
	"lendpool/pkg/metrics"
	"lendpool/store"

	"github.com/fox-one/pkg/logger"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Engine every pool of the service, the market ledgers and their risk controllers.
//
// Calls are serialized, each one runs on a staging txn which is persisted as one
// changeset and applied to the in-memory state only after persistence succeeded.
type Engine struct {
	store    core.ILedgerStore
	blocks   core.IBlockService
	oracle   core.IPriceOracle
	rewards  core.IRewardsDistributor
	notifier core.INotifier
	metrics  *metrics.Metrics

	hookMu sync.RWMutex
	hook   core.ITransferHook

	guard guard
	state *state
}

// New new engine, call Load before serving
func New(
	store core.ILedgerStore,
	blocks core.IBlockService,
	oracle core.IPriceOracle,
	rewards core.IRewardsDistributor,
	notifier core.INotifier,
	m *metrics.Metrics,
) *Engine {
	if m == nil {
		m = metrics.Nop()
	}

	return &Engine{
		store:    store,
		blocks:   blocks,
		oracle:   oracle,
		rewards:  rewards,
		notifier: notifier,
		metrics:  m,
		state:    newState(),
	}
}

// SetTransferHook installs the observer called after every underlying transfer
func (e *Engine) SetTransferHook(hook core.ITransferHook) {
	e.hookMu.Lock()
	e.hook = hook
	e.hookMu.Unlock()
}

func (e *Engine) transferHook() core.ITransferHook {
	e.hookMu.RLock()
	defer e.hookMu.RUnlock()
	return e.hook
}

// Load replaces the in-memory state with the persisted ledger
func (e *Engine) Load(ctx context.Context) error {
	ctx, release, err := e.guard.enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	ls, err := e.store.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load ledger")
	}

	e.state = stateFromLedger(ls)
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"pools":   len(ls.Pools),
		"markets": len(ls.Markets),
	}).Infoln("ledger loaded")
	return nil
}

func (e *Engine) reload(ctx context.Context) {
	ls, err := e.store.Load(ctx)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("reload ledger")
		return
	}

	e.state = stateFromLedger(ls)
}

// op one call in progress, the staging txn plus the collaborators it talks to
type op struct {
	*txn
	ctx context.Context
	e   *Engine
}

// run executes fn on a fresh txn and commits what it staged
func (e *Engine) run(ctx context.Context, poolID string, action core.ActionType, fn func(x *op) error) error {
	ctx, release, err := e.guard.enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"pool":   poolID,
		"action": action,
	})
	ctx = logger.WithContext(ctx, log)

	block, err := e.blocks.CurrentBlock(ctx)
	if err != nil {
		log.WithError(err).Errorln("blocks.CurrentBlock")
		return err
	}

	t := newTxn(e.state, poolID, block)
	if err := fn(&op{txn: t, ctx: ctx, e: e}); err != nil {
		e.failed(ctx, poolID, action, err)
		return err
	}

	if cs := t.changeset(); !cs.Empty() {
		start := time.Now()
		if err := e.store.Persist(ctx, cs); err != nil {
			log.WithError(err).Errorln("persist changeset")
			e.metrics.Actions.WithLabelValues(poolID, action.String(), "persist").Inc()

			// another writer moved the rows, the next call works on what it wrote
			if errors.Is(err, store.ErrVersionConflict) {
				e.reload(ctx)
			}

			return errors.Wrap(err, "persist changeset")
		}
		e.metrics.CommitDuration.Observe(time.Since(start).Seconds())
	}

	t.commit()
	e.committed(ctx, t, action)
	return nil
}

// runPool run on an existing pool
func (e *Engine) runPool(ctx context.Context, poolID string, action core.ActionType, fn func(x *op) error) error {
	return e.run(ctx, poolID, action, func(x *op) error {
		if _, ok := x.pools.get(poolID); !ok {
			return core.ErrPoolNotFound
		}

		return fn(x)
	})
}

// view runs fn on a txn that is never committed
func (e *Engine) view(ctx context.Context, poolID string, fn func(x *op) error) error {
	ctx, release, err := e.guard.enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	block, err := e.blocks.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	t := newTxn(e.state, poolID, block)
	if _, ok := t.pools.get(poolID); !ok {
		return core.ErrPoolNotFound
	}

	return fn(&op{txn: t, ctx: ctx, e: e})
}

func (e *Engine) failed(ctx context.Context, poolID string, action core.ActionType, err error) {
	log := logger.FromContext(ctx)

	result := "error"
	var code core.ErrorCode
	if errors.As(err, &code) {
		result = code.Class().String()
		if code.Class() == core.ClassInvariant {
			log.WithError(err).Errorln(code.Message())
		} else {
			log.WithError(err).Debugln(code.Message())
		}
	} else {
		log.WithError(err).Errorln("call failed")
	}

	e.metrics.Actions.WithLabelValues(poolID, action.String(), result).Inc()
}

func (e *Engine) committed(ctx context.Context, t *txn, action core.ActionType) {
	e.metrics.Actions.WithLabelValues(t.poolID, action.String(), "ok").Inc()

	for _, m := range t.markets.dirty {
		badDebt, _ := m.BadDebt.Float64()
		reserves, _ := m.TotalReserves.Float64()
		e.metrics.BadDebt.WithLabelValues(m.PoolID, m.Symbol).Set(badDebt)
		e.metrics.Reserves.WithLabelValues(m.PoolID, m.Symbol).Set(reserves)
	}

	for _, r := range t.records {
		switch r.Action {
		case core.ActionTypeLiquidateBorrow, core.ActionTypeHealAccount, core.ActionTypeLiquidateAccount:
			e.metrics.Liquidations.WithLabelValues(r.PoolID, r.Action.String()).Inc()
		}
	}

	if len(t.records) == 0 || e.notifier == nil {
		return
	}

	if err := e.notifier.Notify(ctx, t.records); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("notify transactions")
	}
}

// CreatePool registers a new pool owned by pool.Owner
func (e *Engine) CreatePool(ctx context.Context, pool *core.Pool) error {
	if pool.ID == "" || pool.Owner == "" {
		return core.ErrInvalidParameter
	}

	return e.run(ctx, pool.ID, core.ActionTypeCreatePool, func(x *op) error {
		if _, ok := x.pools.get(pool.ID); ok {
			return core.ErrInvalidParameter
		}

		for _, p := range x.pools.base {
			if p.Name == pool.Name {
				return core.ErrInvalidParameter
			}
		}

		p := *pool
		if p.MaxLoopsLimit <= 0 {
			p.MaxLoopsLimit = DefaultMaxLoopsLimit
		}
		if err := validatePool(&p); err != nil {
			return err
		}

		p.Version = 0
		p.CreatedAt = time.Now()
		p.UpdatedAt = p.CreatedAt
		x.putPool(p)

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyTarget, p.Name)
		x.record(core.ActionTypeCreatePool, "", p.Owner, decimal.Zero, extra)
		return nil
	})
}

// Pool committed pool configuration
func (e *Engine) Pool(ctx context.Context, poolID string) (*core.Pool, error) {
	var pool core.Pool
	err := e.view(ctx, poolID, func(x *op) error {
		pool = x.pool()
		return nil
	})

	return &pool, err
}

// Pools every pool, sorted by creation
func (e *Engine) Pools(ctx context.Context) ([]*core.Pool, error) {
	_, release, err := e.guard.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	pools := make([]*core.Pool, 0, len(e.state.pools))
	for _, p := range e.state.pools {
		p := p
		pools = append(pools, &p)
	}

	sort.Slice(pools, func(i, j int) bool {
		if pools[i].CreatedAt.Equal(pools[j].CreatedAt) {
			return pools[i].ID < pools[j].ID
		}
		return pools[i].CreatedAt.Before(pools[j].CreatedAt)
	})

	return pools, nil
}
