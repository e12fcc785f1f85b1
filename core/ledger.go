package core

import "context"

// LedgerState every persisted row an engine works on
type LedgerState struct {
	Pools       []*Pool
	Markets     []*Market
	Risks       []*MarketRisk
	Supplies    []*Supply
	Borrows     []*Borrow
	Memberships []*Membership
	Pauses      []*ActionPause
	Permissions []*Permission
	Balances    []*Balance
}

// AccountMarkets full entered market list of an account
type AccountMarkets struct {
	PoolID  string
	Account string
	Markets []string
}

// Changeset rows written by one committed operation
type Changeset struct {
	Pools        []*Pool
	Markets      []*Market
	Risks        []*MarketRisk
	Supplies     []*Supply
	Borrows      []*Borrow
	Memberships  []*AccountMarkets
	Pauses       []*ActionPause
	Permissions  []*Permission
	Balances     []*Balance
	Transactions []*Transaction
}

// Empty reports whether the changeset writes nothing
func (c *Changeset) Empty() bool {
	return len(c.Pools) == 0 &&
		len(c.Markets) == 0 &&
		len(c.Risks) == 0 &&
		len(c.Supplies) == 0 &&
		len(c.Borrows) == 0 &&
		len(c.Memberships) == 0 &&
		len(c.Pauses) == 0 &&
		len(c.Permissions) == 0 &&
		len(c.Balances) == 0 &&
		len(c.Transactions) == 0
}

// ILedgerStore loads the ledger and persists changesets atomically
type ILedgerStore interface {
	Load(ctx context.Context) (*LedgerState, error)
	// Persist writes every row of the changeset or none of them
	Persist(ctx context.Context, cs *Changeset) error
}
