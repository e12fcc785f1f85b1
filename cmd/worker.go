package cmd

import (
	"context"
	"sync"

	"lendpool/core"
	"lendpool/pkg/metrics"
	"lendpool/service/pool"
	"lendpool/worker"
	"lendpool/worker/interest"
	"lendpool/worker/liquidity"
	"lendpool/worker/priceoracle"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "lendpool job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		m := provideMetrics()
		prices := providePriceStore(database)
		oracle := providePriceOracle(prices)
		engine := provideEngine(ctx, database, oracle, m)

		runWorkers(ctx, database, engine, prices, oracle, m)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

// runWorkers blocks until every worker returned
func runWorkers(
	ctx context.Context,
	database *db.DB,
	engine *pool.Engine,
	prices core.IPriceStore,
	oracle core.IPriceOracle,
	m *metrics.Metrics,
) {
	log := logger.FromContext(ctx)
	blocks := provideBlockService()

	workers := []worker.Worker{
		interest.New(provideConfig(), engine, blocks, providePropertyStore(database)),
		priceoracle.New(provideConfig(), database, engine, prices, blocks, providePriceTickerService(), oracle),
		liquidity.New(provideConfig(), engine, m),
	}

	wg := sync.WaitGroup{}
	for _, w := range workers {
		wg.Add(1)

		go func(w worker.Worker) {
			defer wg.Done()
			if err := w.Run(ctx); err != nil {
				log.WithError(err).Errorln("worker exited")
			}
		}(w)
	}

	wg.Wait()
}
