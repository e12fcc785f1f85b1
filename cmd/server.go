package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lendpool/handler"
	"lendpool/handler/hc"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run lendpool api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		m := provideMetrics()
		prices := providePriceStore(database)
		oracle := providePriceOracle(prices)
		engine := provideEngine(ctx, database, oracle, m)
		transactions := provideTransactionStore(database)

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(middleware.NewCompressor(5).Handler)

		{
			//hc
			ping := hc.PingFunc(func() error {
				return database.View().DB().Ping()
			})
			mux.Mount("/hc", hc.Handle(rootCmd.Version, ping))
		}

		{
			//metrics
			mux.Handle("/metrics", promhttp.Handler())
		}

		{
			//restful api
			svr := handler.New(engine, transactions, provideConfig())
			mux.Mount("/api", svr.HandleRestAPI())
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)

		// the engine keeps the ledger in memory, one process should write it
		if withWorker, _ := cmd.Flags().GetBool("worker"); withWorker {
			go runWorkers(ctx, database, engine, prices, oracle, m)
		}
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		logrus.Infoln("serve at", addr)
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("worker", true, "run the ledger workers in the server process")
}
