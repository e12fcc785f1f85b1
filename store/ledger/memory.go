package ledger

import (
	"context"
	"sync"

	"lendpool/core"
	"lendpool/store"
)

// MemoryStore keeps the ledger in memory, every persisted changeset is kept in order
type MemoryStore struct {
	mu         sync.Mutex
	state      core.LedgerState
	versions   map[versionKey]int64
	changesets []*core.Changeset
	failNext   error
}

// Memory new in-memory ledger store
func Memory() *MemoryStore {
	return &MemoryStore{versions: map[versionKey]int64{}}
}

// FailNext makes the next Persist return err without writing anything
func (s *MemoryStore) FailNext(err error) {
	s.mu.Lock()
	s.failNext = err
	s.mu.Unlock()
}

// Changesets persisted changesets
func (s *MemoryStore) Changesets() []*core.Changeset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*core.Changeset(nil), s.changesets...)
}

// Transactions every persisted audit record
func (s *MemoryStore) Transactions() []*core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var transactions []*core.Transaction
	for _, cs := range s.changesets {
		transactions = append(transactions, cs.Transactions...)
	}

	return transactions
}

func (s *MemoryStore) Load(ctx context.Context) (*core.LedgerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls := core.LedgerState{
		Pools:       append([]*core.Pool(nil), s.state.Pools...),
		Markets:     append([]*core.Market(nil), s.state.Markets...),
		Risks:       append([]*core.MarketRisk(nil), s.state.Risks...),
		Supplies:    append([]*core.Supply(nil), s.state.Supplies...),
		Borrows:     append([]*core.Borrow(nil), s.state.Borrows...),
		Memberships: append([]*core.Membership(nil), s.state.Memberships...),
		Pauses:      append([]*core.ActionPause(nil), s.state.Pauses...),
		Permissions: append([]*core.Permission(nil), s.state.Permissions...),
		Balances:    append([]*core.Balance(nil), s.state.Balances...),
	}

	return &ls, nil
}

type versionKey struct {
	kind string
	key  string
}

// check optimistic versions of every versioned row before anything is written
func (s *MemoryStore) check(cs *core.Changeset) error {
	rows := map[versionKey]int64{}
	for _, p := range cs.Pools {
		rows[versionKey{"pool", p.ID}] = p.Version
	}

	for _, m := range cs.Markets {
		rows[versionKey{"market", m.PoolID + "/" + m.Symbol}] = m.Version
	}

	for _, r := range cs.Risks {
		rows[versionKey{"risk", r.PoolID + "/" + r.Symbol}] = r.Version
	}

	for _, sp := range cs.Supplies {
		rows[versionKey{"supply", sp.PoolID + "/" + sp.Symbol + "/" + sp.Account}] = sp.Version
	}

	for _, b := range cs.Borrows {
		rows[versionKey{"borrow", b.PoolID + "/" + b.Symbol + "/" + b.Account}] = b.Version
	}

	for _, b := range cs.Balances {
		rows[versionKey{"balance", b.AssetID + "/" + b.Account}] = b.Version
	}

	for k, version := range rows {
		if s.versions[k] != version-1 {
			return store.ErrVersionConflict
		}
	}

	for k, version := range rows {
		s.versions[k] = version
	}

	return nil
}

func (s *MemoryStore) Persist(ctx context.Context, cs *core.Changeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failNext; err != nil {
		s.failNext = nil
		return err
	}

	if err := s.check(cs); err != nil {
		return err
	}

	for _, p := range cs.Pools {
		v := *p
		s.state.Pools = upsert(s.state.Pools, &v, func(x *core.Pool) bool { return x.ID == p.ID })
	}

	for _, m := range cs.Markets {
		v := *m
		s.state.Markets = upsert(s.state.Markets, &v, func(x *core.Market) bool {
			return x.PoolID == m.PoolID && x.Symbol == m.Symbol
		})
	}

	for _, r := range cs.Risks {
		v := *r
		s.state.Risks = upsert(s.state.Risks, &v, func(x *core.MarketRisk) bool {
			return x.PoolID == r.PoolID && x.Symbol == r.Symbol
		})
	}

	for _, sp := range cs.Supplies {
		v := *sp
		s.state.Supplies = upsert(s.state.Supplies, &v, func(x *core.Supply) bool {
			return x.PoolID == sp.PoolID && x.Symbol == sp.Symbol && x.Account == sp.Account
		})
	}

	for _, b := range cs.Borrows {
		v := *b
		s.state.Borrows = upsert(s.state.Borrows, &v, func(x *core.Borrow) bool {
			return x.PoolID == b.PoolID && x.Symbol == b.Symbol && x.Account == b.Account
		})
	}

	for _, am := range cs.Memberships {
		kept := s.state.Memberships[:0:0]
		for _, m := range s.state.Memberships {
			if m.PoolID != am.PoolID || m.Account != am.Account {
				kept = append(kept, m)
			}
		}

		for idx, symbol := range am.Markets {
			kept = append(kept, &core.Membership{PoolID: am.PoolID, Account: am.Account, Symbol: symbol, Seq: idx})
		}

		s.state.Memberships = kept
	}

	for _, p := range cs.Pauses {
		v := *p
		s.state.Pauses = upsert(s.state.Pauses, &v, func(x *core.ActionPause) bool {
			return x.PoolID == p.PoolID && x.Symbol == p.Symbol && x.Action == p.Action
		})
	}

	for _, p := range cs.Permissions {
		v := *p
		s.state.Permissions = upsert(s.state.Permissions, &v, func(x *core.Permission) bool {
			return x.PoolID == p.PoolID && x.Account == p.Account && x.Scope == p.Scope
		})
	}

	for _, b := range cs.Balances {
		v := *b
		s.state.Balances = upsert(s.state.Balances, &v, func(x *core.Balance) bool {
			return x.AssetID == b.AssetID && x.Account == b.Account
		})
	}

	s.changesets = append(s.changesets, cs)
	return nil
}

func upsert[T any](rows []*T, row *T, match func(*T) bool) []*T {
	for idx, r := range rows {
		if match(r) {
			rows[idx] = row
			return rows
		}
	}

	return append(rows, row)
}
