package pool

import (
	"sort"

	"lendpool/core"
)

type marketKey struct {
	pool, symbol string
}

type accountKey struct {
	pool, symbol, account string
}

type memberKey struct {
	pool, account string
}

type pauseKey struct {
	pool, symbol string
	action       core.Action
}

type permKey struct {
	pool, account string
	scope         core.AccessScope
}

type balanceKey struct {
	asset, account string
}

// state committed ledger rows, only written by txn.commit
type state struct {
	pools    map[string]core.Pool
	markets  map[marketKey]core.Market
	risks    map[marketKey]core.MarketRisk
	supplies map[accountKey]core.Supply
	borrows  map[accountKey]core.Borrow
	members  map[memberKey][]string
	pauses   map[pauseKey]core.ActionPause
	perms    map[permKey]core.Permission
	balances map[balanceKey]core.Balance
}

func newState() *state {
	return &state{
		pools:    map[string]core.Pool{},
		markets:  map[marketKey]core.Market{},
		risks:    map[marketKey]core.MarketRisk{},
		supplies: map[accountKey]core.Supply{},
		borrows:  map[accountKey]core.Borrow{},
		members:  map[memberKey][]string{},
		pauses:   map[pauseKey]core.ActionPause{},
		perms:    map[permKey]core.Permission{},
		balances: map[balanceKey]core.Balance{},
	}
}

func stateFromLedger(ls *core.LedgerState) *state {
	s := newState()

	for _, p := range ls.Pools {
		s.pools[p.ID] = *p
	}

	for _, m := range ls.Markets {
		s.markets[marketKey{m.PoolID, m.Symbol}] = *m
	}

	for _, r := range ls.Risks {
		s.risks[marketKey{r.PoolID, r.Symbol}] = *r
	}

	for _, sp := range ls.Supplies {
		s.supplies[accountKey{sp.PoolID, sp.Symbol, sp.Account}] = *sp
	}

	for _, b := range ls.Borrows {
		s.borrows[accountKey{b.PoolID, b.Symbol, b.Account}] = *b
	}

	members := append([]*core.Membership(nil), ls.Memberships...)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Seq < members[j].Seq
	})
	for _, m := range members {
		k := memberKey{m.PoolID, m.Account}
		s.members[k] = append(s.members[k], m.Symbol)
	}

	for _, p := range ls.Pauses {
		s.pauses[pauseKey{p.PoolID, p.Symbol, p.Action}] = *p
	}

	for _, p := range ls.Permissions {
		s.perms[permKey{p.PoolID, p.Account, p.Scope}] = *p
	}

	for _, b := range ls.Balances {
		s.balances[balanceKey{b.AssetID, b.Account}] = *b
	}

	return s
}

// table staged view over one committed map
type table[K comparable, V any] struct {
	base  map[K]V
	dirty map[K]V
}

func newTable[K comparable, V any](base map[K]V) *table[K, V] {
	return &table[K, V]{base: base, dirty: map[K]V{}}
}

func (t *table[K, V]) get(k K) (V, bool) {
	if v, ok := t.dirty[k]; ok {
		return v, true
	}

	v, ok := t.base[k]
	return v, ok
}

func (t *table[K, V]) put(k K, v V) {
	t.dirty[k] = v
}

// keys every key, committed or staged, accepted by match
func (t *table[K, V]) keys(match func(K) bool) []K {
	var keys []K
	for k := range t.base {
		if _, staged := t.dirty[k]; !staged && match(k) {
			keys = append(keys, k)
		}
	}

	for k := range t.dirty {
		if match(k) {
			keys = append(keys, k)
		}
	}

	return keys
}

func (t *table[K, V]) commit() {
	for k, v := range t.dirty {
		t.base[k] = v
	}
}
