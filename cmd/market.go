package cmd

import (
	"strings"

	"lendpool/core"

	"github.com/spf13/cobra"
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "manage the markets of a pool",
}

var supportMarketCmd = &cobra.Command{
	Use:   "support",
	Short: "list a new market in the pool",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		engine := provideEngine(ctx, database, providePriceOracle(providePriceStore(database)), provideMetrics())

		flags := cmd.Flags()
		poolID, _ := flags.GetString("pool")
		caller, _ := flags.GetString("caller")
		symbol, _ := flags.GetString("symbol")
		assetID, _ := flags.GetString("asset")
		kind, _ := flags.GetString("rate-model")
		get := func(name string) string {
			v, _ := flags.GetString(name)
			return v
		}

		params := &core.MarketParams{
			Symbol:              strings.ToUpper(symbol),
			AssetID:             assetID,
			InitialExchangeRate: mustDecimal(get("initial-exchange-rate")),
			ReserveFactor:       mustDecimal(get("reserve-factor")),
			ProtocolSeizeShare:  mustDecimal(get("protocol-seize-share")),
			RateModel: core.RateModelParams{
				Kind:           core.RateModelKind(kind),
				BaseRate:       mustDecimal(get("base-rate")),
				Multiplier:     mustDecimal(get("multiplier")),
				JumpMultiplier: mustDecimal(get("jump-multiplier")),
				Kink:           mustDecimal(get("kink")),
			},
			CollateralFactor:     mustDecimal(get("collateral-factor")),
			LiquidationThreshold: mustDecimal(get("liquidation-threshold")),
			SupplyCap:            mustDecimal(get("supply-cap")),
			BorrowCap:            mustDecimal(get("borrow-cap")),
		}

		if err := engine.SupportMarket(ctx, poolID, caller, params); err != nil {
			cmd.PrintErrln("support market failed:", err)
			return
		}

		snapshot, err := engine.MarketSnapshot(ctx, poolID, params.Symbol)
		if err != nil {
			cmd.PrintErrln("read market failed:", err)
			return
		}

		printJSON(cmd, snapshot)
	},
}

var listMarketsCmd = &cobra.Command{
	Use:   "list",
	Short: "list the markets of a pool",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		engine := provideEngine(ctx, database, providePriceOracle(providePriceStore(database)), provideMetrics())

		poolID, _ := cmd.Flags().GetString("pool")
		markets, err := engine.Markets(ctx, poolID)
		if err != nil {
			cmd.PrintErrln("list markets failed:", err)
			return
		}

		printJSON(cmd, markets)
	},
}

var marketRiskCmd = &cobra.Command{
	Use:   "risk",
	Short: "set the collateral factor and liquidation threshold of a market",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		engine := provideEngine(ctx, database, providePriceOracle(providePriceStore(database)), provideMetrics())

		flags := cmd.Flags()
		poolID, _ := flags.GetString("pool")
		caller, _ := flags.GetString("caller")
		symbol, _ := flags.GetString("symbol")
		cf, _ := flags.GetString("collateral-factor")
		lt, _ := flags.GetString("liquidation-threshold")
		symbol = strings.ToUpper(symbol)

		if err := engine.SetCollateralFactor(ctx, poolID, caller, symbol, mustDecimal(cf), mustDecimal(lt)); err != nil {
			cmd.PrintErrln("set risk failed:", err)
			return
		}

		risk, err := engine.Risk(ctx, poolID, symbol)
		if err != nil {
			cmd.PrintErrln("read risk failed:", err)
			return
		}

		printJSON(cmd, risk)
	},
}

func init() {
	rootCmd.AddCommand(marketCmd)
	marketCmd.AddCommand(supportMarketCmd, listMarketsCmd, marketRiskCmd)

	for _, c := range []*cobra.Command{supportMarketCmd, listMarketsCmd, marketRiskCmd} {
		c.Flags().String("pool", "", "pool id")
	}

	for _, c := range []*cobra.Command{supportMarketCmd, marketRiskCmd} {
		c.Flags().String("caller", "", "account calling the restricted setter")
		c.Flags().String("symbol", "", "market symbol")
		c.Flags().String("collateral-factor", "0", "collateral factor")
		c.Flags().String("liquidation-threshold", "0", "liquidation threshold")
	}

	flags := supportMarketCmd.Flags()
	flags.String("asset", "", "underlying asset id")
	flags.String("rate-model", string(core.RateModelJump), "jump or whitepaper")
	flags.String("initial-exchange-rate", "1", "initial exchange rate")
	flags.String("reserve-factor", "0.1", "reserve factor")
	flags.String("protocol-seize-share", "0", "protocol seize share")
	flags.String("base-rate", "0.02", "base rate per year")
	flags.String("multiplier", "0.1", "multiplier per year")
	flags.String("jump-multiplier", "1", "jump multiplier per year")
	flags.String("kink", "0.8", "kink utilization")
	flags.String("supply-cap", "-1", "supply cap, negative is uncapped")
	flags.String("borrow-cap", "-1", "borrow cap, negative is uncapped")
}
