package cmd

import (
	"encoding/json"

	"lendpool/core"
	poolstore "lendpool/store/pool"

	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "manage lending pools",
}

var createPoolCmd = &cobra.Command{
	Use:   "create",
	Short: "create a pool",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		engine := provideEngine(ctx, database, providePriceOracle(providePriceStore(database)), provideMetrics())

		name, _ := cmd.Flags().GetString("name")
		owner, _ := cmd.Flags().GetString("owner")
		closeFactor, _ := cmd.Flags().GetString("close-factor")
		incentive, _ := cmd.Flags().GetString("incentive")
		minCollateral, _ := cmd.Flags().GetString("min-collateral")
		maxLoops, _ := cmd.Flags().GetInt("max-loops")
		auction, _ := cmd.Flags().GetString("auction")

		pool := &core.Pool{
			ID:                        uuid.New(),
			Name:                      name,
			Owner:                     owner,
			CloseFactor:               mustDecimal(closeFactor),
			LiquidationIncentive:      mustDecimal(incentive),
			MinLiquidatableCollateral: mustDecimal(minCollateral),
			MaxLoopsLimit:             maxLoops,
			ShortfallAuction:          auction,
		}

		if err := engine.CreatePool(ctx, pool); err != nil {
			cmd.PrintErrln("create pool failed:", err)
			return
		}

		printJSON(cmd, pool)
	},
}

var listPoolsCmd = &cobra.Command{
	Use:   "list",
	Short: "list pools",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		pools, err := poolstore.New(database).All(ctx)
		if err != nil {
			cmd.PrintErrln("list pools failed:", err)
			return
		}

		printJSON(cmd, pools)
	},
}

func mustDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}

	return decimal.RequireFromString(s)
}

func printJSON(cmd *cobra.Command, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		cmd.PrintErrln("marshal output failed:", err)
		return
	}

	cmd.Println(string(data))
}

func init() {
	rootCmd.AddCommand(poolCmd)
	poolCmd.AddCommand(createPoolCmd, listPoolsCmd)

	createPoolCmd.Flags().String("name", "", "unique pool name")
	createPoolCmd.Flags().String("owner", "", "owner account, the only one allowed to call restricted setters at first")
	createPoolCmd.Flags().String("close-factor", "0.5", "close factor in [0.05, 0.9]")
	createPoolCmd.Flags().String("incentive", "1.1", "liquidation incentive, at least 1")
	createPoolCmd.Flags().String("min-collateral", "100", "usd value below which only batch liquidation is allowed")
	createPoolCmd.Flags().Int("max-loops", 16, "max markets one account may enter")
	createPoolCmd.Flags().String("auction", "", "shortfall auction account")
}
