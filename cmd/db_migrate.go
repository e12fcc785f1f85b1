package cmd

import (
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"setdb"},
	Short:   "create or update the ledger tables",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)

		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			log.WithError(err).Errorln("migrate")
			return
		}

		// read every ledger table back through the models
		if check, _ := cmd.Flags().GetBool("check"); check {
			state, err := provideLedgerStore(database).Load(ctx)
			if err != nil {
				log.WithError(err).Errorln("load ledger after migrate")
				return
			}

			log.Infof("ledger loaded, %d pools %d markets", len(state.Pools), len(state.Markets))
		}

		cmd.Println("database migrated")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("check", false, "load the ledger after migrating")
}
