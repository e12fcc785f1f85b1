package pool

import (
	"sort"
	"time"

	"lendpool/core"
	"lendpool/pkg/id"

	"github.com/shopspring/decimal"
)

// txn stages every write of one operation, committed state stays untouched
// until the changeset is persisted.
type txn struct {
	poolID string
	block  int64

	pools    *table[string, core.Pool]
	markets  *table[marketKey, core.Market]
	risks    *table[marketKey, core.MarketRisk]
	supplies *table[accountKey, core.Supply]
	borrows  *table[accountKey, core.Borrow]
	members  *table[memberKey, []string]
	pauses   *table[pauseKey, core.ActionPause]
	perms    *table[permKey, core.Permission]
	balances *table[balanceKey, core.Balance]

	records []*core.Transaction
}

func newTxn(s *state, poolID string, block int64) *txn {
	return &txn{
		poolID:   poolID,
		block:    block,
		pools:    newTable(s.pools),
		markets:  newTable(s.markets),
		risks:    newTable(s.risks),
		supplies: newTable(s.supplies),
		borrows:  newTable(s.borrows),
		members:  newTable(s.members),
		pauses:   newTable(s.pauses),
		perms:    newTable(s.perms),
		balances: newTable(s.balances),
	}
}

func (t *txn) pool() core.Pool {
	p, _ := t.pools.get(t.poolID)
	return p
}

func (t *txn) putPool(p core.Pool) {
	t.pools.put(p.ID, p)
}

// touchConfig marks the pool configuration as changed so its version moves
func (t *txn) touchConfig() {
	p := t.pool()
	p.UpdatedAt = time.Now()
	t.putPool(p)
}

func (t *txn) market(symbol string) (core.Market, error) {
	m, ok := t.markets.get(marketKey{t.poolID, symbol})
	if !ok {
		return m, core.ErrMarketNotFound
	}

	return m, nil
}

func (t *txn) putMarket(m core.Market) {
	t.markets.put(marketKey{m.PoolID, m.Symbol}, m)
}

// symbols every market of the pool, sorted
func (t *txn) symbols() []string {
	keys := t.markets.keys(func(k marketKey) bool { return k.pool == t.poolID })
	symbols := make([]string, 0, len(keys))
	for _, k := range keys {
		symbols = append(symbols, k.symbol)
	}

	sort.Strings(symbols)
	return symbols
}

func (t *txn) risk(symbol string) core.MarketRisk {
	r, ok := t.risks.get(marketKey{t.poolID, symbol})
	if !ok {
		return core.MarketRisk{PoolID: t.poolID, Symbol: symbol}
	}

	return r
}

func (t *txn) putRisk(r core.MarketRisk) {
	t.risks.put(marketKey{r.PoolID, r.Symbol}, r)
}

func (t *txn) tokens(symbol, account string) decimal.Decimal {
	s, _ := t.supplies.get(accountKey{t.poolID, symbol, account})
	return s.Tokens
}

func (t *txn) setTokens(symbol, account string, tokens decimal.Decimal) {
	k := accountKey{t.poolID, symbol, account}
	s, ok := t.supplies.get(k)
	if !ok {
		s = core.Supply{PoolID: t.poolID, Symbol: symbol, Account: account}
	}

	s.Tokens = tokens
	t.supplies.put(k, s)
}

func (t *txn) borrowSnapshot(symbol, account string) core.Borrow {
	b, ok := t.borrows.get(accountKey{t.poolID, symbol, account})
	if !ok {
		return core.Borrow{PoolID: t.poolID, Symbol: symbol, Account: account, Principal: decimal.Zero, InterestIndex: decimal.Zero}
	}

	return b
}

func (t *txn) setBorrow(symbol, account string, principal, interestIndex decimal.Decimal) {
	b := t.borrowSnapshot(symbol, account)
	b.Principal = principal
	b.InterestIndex = interestIndex
	t.borrows.put(accountKey{t.poolID, symbol, account}, b)
}

// borrowers accounts holding a borrow snapshot in the pool
func (t *txn) borrowers() []string {
	seen := map[string]bool{}
	var accounts []string
	for _, k := range t.borrows.keys(func(k accountKey) bool { return k.pool == t.poolID }) {
		b, _ := t.borrows.get(k)
		if b.Principal.IsPositive() && !seen[k.account] {
			seen[k.account] = true
			accounts = append(accounts, k.account)
		}
	}

	sort.Strings(accounts)
	return accounts
}

func (t *txn) assetsIn(account string) []string {
	symbols, _ := t.members.get(memberKey{t.poolID, account})
	return symbols
}

func (t *txn) isMember(account, symbol string) bool {
	for _, s := range t.assetsIn(account) {
		if s == symbol {
			return true
		}
	}

	return false
}

func (t *txn) setAssetsIn(account string, symbols []string) {
	t.members.put(memberKey{t.poolID, account}, symbols)
}

func (t *txn) paused(symbol string, action core.Action) bool {
	p, _ := t.pauses.get(pauseKey{t.poolID, symbol, action})
	return p.Paused
}

func (t *txn) setPaused(symbol string, action core.Action, paused bool) {
	t.pauses.put(pauseKey{t.poolID, symbol, action}, core.ActionPause{
		PoolID: t.poolID,
		Symbol: symbol,
		Action: action,
		Paused: paused,
	})
}

func (t *txn) granted(account string, scope core.AccessScope) bool {
	p, _ := t.perms.get(permKey{t.poolID, account, scope})
	return p.Granted
}

func (t *txn) setGranted(account string, scope core.AccessScope, granted bool) {
	k := permKey{t.poolID, account, scope}
	p, ok := t.perms.get(k)
	if !ok {
		p = core.Permission{PoolID: t.poolID, Account: account, Scope: scope}
	}

	p.Granted = granted
	t.perms.put(k, p)
}

func (t *txn) balance(asset, account string) decimal.Decimal {
	b, _ := t.balances.get(balanceKey{asset, account})
	return b.Amount
}

func (t *txn) setBalance(asset, account string, amount decimal.Decimal) {
	k := balanceKey{asset, account}
	b, ok := t.balances.get(k)
	if !ok {
		b = core.Balance{AssetID: asset, Account: account}
	}

	b.Amount = amount
	t.balances.put(k, b)
}

// cash underlying held by the market
func (t *txn) cash(m core.Market) decimal.Decimal {
	return t.balance(m.AssetID, m.Address)
}

func (t *txn) record(action core.ActionType, symbol, account string, amount decimal.Decimal, extra core.TransactionExtraData) {
	if extra == nil {
		extra = core.NewTransactionExtra()
	}

	tx := &core.Transaction{
		TraceID:   id.GenTraceID(),
		PoolID:    t.poolID,
		Action:    action,
		Symbol:    symbol,
		Account:   account,
		Amount:    amount,
		Block:     t.block,
		CreatedAt: time.Now(),
	}
	tx.SetExtraData(extra)
	t.records = append(t.records, tx)
}

// changeset bumps the version of every staged row and collects them
func (t *txn) changeset() *core.Changeset {
	cs := &core.Changeset{Transactions: t.records}

	for k, p := range t.pools.dirty {
		p := p
		p.Version++
		t.pools.dirty[k] = p
		cs.Pools = append(cs.Pools, &p)
	}

	for k, m := range t.markets.dirty {
		m := m
		m.Version++
		t.markets.dirty[k] = m
		cs.Markets = append(cs.Markets, &m)
	}

	for k, r := range t.risks.dirty {
		r := r
		r.Version++
		t.risks.dirty[k] = r
		cs.Risks = append(cs.Risks, &r)
	}

	for k, s := range t.supplies.dirty {
		s := s
		s.Version++
		t.supplies.dirty[k] = s
		cs.Supplies = append(cs.Supplies, &s)
	}

	for k, b := range t.borrows.dirty {
		b := b
		b.Version++
		t.borrows.dirty[k] = b
		cs.Borrows = append(cs.Borrows, &b)
	}

	for k, symbols := range t.members.dirty {
		cs.Memberships = append(cs.Memberships, &core.AccountMarkets{
			PoolID:  k.pool,
			Account: k.account,
			Markets: symbols,
		})
	}

	for _, p := range t.pauses.dirty {
		p := p
		cs.Pauses = append(cs.Pauses, &p)
	}

	for _, p := range t.perms.dirty {
		p := p
		cs.Permissions = append(cs.Permissions, &p)
	}

	for k, b := range t.balances.dirty {
		b := b
		b.Version++
		t.balances.dirty[k] = b
		cs.Balances = append(cs.Balances, &b)
	}

	for _, r := range cs.Transactions {
		r.ConfigVersion = t.pool().Version
	}

	return cs
}

func (t *txn) commit() {
	t.pools.commit()
	t.markets.commit()
	t.risks.commit()
	t.supplies.commit()
	t.borrows.commit()
	t.members.commit()
	t.pauses.commit()
	t.perms.commit()
	t.balances.commit()
}
