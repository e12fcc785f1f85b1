package cmd

import (
	"lendpool/core"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "inspect accounts",
}

var accountSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "solvency snapshot of an account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		engine := provideEngine(ctx, database, providePriceOracle(providePriceStore(database)), provideMetrics())

		poolID, _ := cmd.Flags().GetString("pool")
		account, _ := cmd.Flags().GetString("account")

		state, liquidity, err := engine.SolvencyState(ctx, poolID, account)
		if err != nil {
			cmd.PrintErrln("snapshot failed:", err)
			return
		}

		collateral, err := engine.AccountLiquidity(ctx, poolID, account, core.WeightCollateralFactor)
		if err != nil {
			cmd.PrintErrln("snapshot failed:", err)
			return
		}

		positions, err := engine.AccountSnapshots(ctx, poolID, account)
		if err != nil {
			cmd.PrintErrln("snapshot failed:", err)
			return
		}

		printJSON(cmd, map[string]interface{}{
			"state":      state,
			"liquidity":  liquidity,
			"collateral": collateral,
			"positions":  positions,
		})
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountSnapshotCmd)

	accountSnapshotCmd.Flags().String("pool", "", "pool id")
	accountSnapshotCmd.Flags().String("account", "", "account")
}
