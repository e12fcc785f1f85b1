package ledger

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/pkg/errors"
)

// Stores row stores the ledger reads and writes
type Stores struct {
	Pools        core.IPoolStore
	Markets      core.IMarketStore
	Risks        core.IMarketRiskStore
	Supplies     core.ISupplyStore
	Borrows      core.IBorrowStore
	Memberships  core.IMembershipStore
	Pauses       core.IActionPauseStore
	Permissions  core.IPermissionStore
	Balances     core.IBalanceStore
	Transactions core.TransactionStore
}

type ledgerStore struct {
	db     *db.DB
	stores Stores
}

// New ledger store persisting changesets in one db transaction
func New(db *db.DB, stores Stores) core.ILedgerStore {
	return &ledgerStore{
		db:     db,
		stores: stores,
	}
}

func (s *ledgerStore) Load(ctx context.Context) (*core.LedgerState, error) {
	var (
		ls  core.LedgerState
		err error
	)

	if ls.Pools, err = s.stores.Pools.All(ctx); err != nil {
		return nil, errors.Wrap(err, "list pools")
	}

	if ls.Markets, err = s.stores.Markets.All(ctx); err != nil {
		return nil, errors.Wrap(err, "list markets")
	}

	if ls.Risks, err = s.stores.Risks.ListByPool(ctx, ""); err != nil {
		return nil, errors.Wrap(err, "list market risks")
	}

	if ls.Supplies, err = s.stores.Supplies.ListByPool(ctx, ""); err != nil {
		return nil, errors.Wrap(err, "list supplies")
	}

	if ls.Borrows, err = s.stores.Borrows.ListByPool(ctx, ""); err != nil {
		return nil, errors.Wrap(err, "list borrows")
	}

	if ls.Memberships, err = s.stores.Memberships.ListByPool(ctx, ""); err != nil {
		return nil, errors.Wrap(err, "list memberships")
	}

	if ls.Pauses, err = s.stores.Pauses.ListByPool(ctx, ""); err != nil {
		return nil, errors.Wrap(err, "list pauses")
	}

	if ls.Permissions, err = s.stores.Permissions.ListByPool(ctx, ""); err != nil {
		return nil, errors.Wrap(err, "list permissions")
	}

	if ls.Balances, err = s.stores.Balances.ListByAssets(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "list balances")
	}

	return &ls, nil
}

func (s *ledgerStore) Persist(ctx context.Context, cs *core.Changeset) error {
	return s.db.Tx(func(tx *db.DB) error {
		for _, p := range cs.Pools {
			if err := s.stores.Pools.Save(ctx, tx, p); err != nil {
				return errors.Wrapf(err, "save pool %s", p.ID)
			}
		}

		for _, m := range cs.Markets {
			if err := s.stores.Markets.Save(ctx, tx, m); err != nil {
				return errors.Wrapf(err, "save market %s", m.Symbol)
			}
		}

		for _, r := range cs.Risks {
			if err := s.stores.Risks.Save(ctx, tx, r); err != nil {
				return errors.Wrapf(err, "save market risk %s", r.Symbol)
			}
		}

		for _, supply := range cs.Supplies {
			if err := s.stores.Supplies.Save(ctx, tx, supply); err != nil {
				return errors.Wrapf(err, "save supply %s", supply.Account)
			}
		}

		for _, b := range cs.Borrows {
			if err := s.stores.Borrows.Save(ctx, tx, b); err != nil {
				return errors.Wrapf(err, "save borrow %s", b.Account)
			}
		}

		for _, m := range cs.Memberships {
			if err := s.stores.Memberships.Replace(ctx, tx, m.PoolID, m.Account, m.Markets); err != nil {
				return errors.Wrapf(err, "replace memberships %s", m.Account)
			}
		}

		for _, p := range cs.Pauses {
			if err := s.stores.Pauses.Save(ctx, tx, p); err != nil {
				return errors.Wrapf(err, "save pause %s %s", p.Symbol, p.Action)
			}
		}

		for _, p := range cs.Permissions {
			if err := s.stores.Permissions.Save(ctx, tx, p); err != nil {
				return errors.Wrapf(err, "save permission %s", p.Account)
			}
		}

		for _, b := range cs.Balances {
			if err := s.stores.Balances.Save(ctx, tx, b); err != nil {
				return errors.Wrapf(err, "save balance %s", b.Account)
			}
		}

		for _, t := range cs.Transactions {
			if err := s.stores.Transactions.Create(ctx, tx, t); err != nil {
				return errors.Wrapf(err, "create transaction %s", t.TraceID)
			}
		}

		return nil
	})
}
