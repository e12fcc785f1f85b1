package cmd

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/metrics"
	"lendpool/service/block"
	"lendpool/service/notifier"
	"lendpool/service/oracle"
	"lendpool/service/pool"
	"lendpool/service/rewards"
	"lendpool/store/balance"
	"lendpool/store/borrow"
	"lendpool/store/ledger"
	"lendpool/store/market"
	"lendpool/store/membership"
	"lendpool/store/operation"
	poolstore "lendpool/store/pool"
	"lendpool/store/price"
	"lendpool/store/risk"
	"lendpool/store/supply"
	"lendpool/store/transaction"

	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideTransactionStore(db *db.DB) core.TransactionStore {
	return transaction.New(db)
}

func providePriceStore(db *db.DB) core.IPriceStore {
	return price.New(db)
}

func provideLedgerStore(db *db.DB) core.ILedgerStore {
	return ledger.New(db, ledger.Stores{
		Pools:        poolstore.New(db),
		Markets:      market.New(db),
		Risks:        risk.New(db),
		Supplies:     supply.New(db),
		Borrows:      borrow.New(db),
		Memberships:  membership.New(db),
		Pauses:       operation.NewPauseStore(db),
		Permissions:  operation.NewPermissionStore(db),
		Balances:     balance.New(db),
		Transactions: provideTransactionStore(db),
	})
}

// ------------------service------------------------------------

func provideMetrics() *metrics.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

func provideBlockService() core.IBlockService {
	return block.New(provideConfig(), clock.New())
}

func providePriceOracle(prices core.IPriceStore) core.IPriceOracle {
	return oracle.New(prices, cfg.PriceOracle.CacheSize, cfg.PriceOracle.CacheTTL)
}

func providePriceTickerService() core.IPriceTickerService {
	return oracle.NewTickerService(provideConfig())
}

func provideNotifier() core.INotifier {
	if cfg.Nats.URL == "" {
		return notifier.Log()
	}

	conn, err := nats.Connect(cfg.Nats.URL, nats.Name("lendpool"))
	if err != nil {
		panic(err)
	}

	return notifier.New(conn, cfg.Nats.SubjectPrefix)
}

// provideEngine loads the ledger from db, panics when it cannot be read
func provideEngine(ctx context.Context, db *db.DB, oracle core.IPriceOracle, m *metrics.Metrics) *pool.Engine {
	engine := pool.New(
		provideLedgerStore(db),
		provideBlockService(),
		oracle,
		rewards.New(),
		provideNotifier(),
		m,
	)

	if err := engine.Load(ctx); err != nil {
		panic(err)
	}

	return engine
}
