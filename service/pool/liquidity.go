package pool

import (
	"lendpool/core"
	"lendpool/internal/compound"

	"github.com/shopspring/decimal"
)

func truncate(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(compound.MaxPricision)
}

// snapshot usd solvency of account over the markets it entered, weighted by weight.
// modify names a market whose redeemTokens and borrowAmount are applied hypothetically.
// refresh updates every price before it is read.
func (x *op) snapshot(account, modify string, redeemTokens, borrowAmount decimal.Decimal, weight core.Weight, refresh bool) (*core.AccountLiquidity, error) {
	var (
		totalCollateral    = decimal.Zero
		weightedCollateral = decimal.Zero
		borrows            = decimal.Zero
		effects            = decimal.Zero
	)

	for _, symbol := range x.assetsIn(account) {
		m, err := x.market(symbol)
		if err != nil {
			return nil, err
		}

		if refresh {
			if err := x.updatePrice(symbol); err != nil {
				return nil, err
			}
		}

		price, err := x.price(symbol)
		if err != nil {
			return nil, err
		}

		risk := x.risk(symbol)
		rate := x.exchangeRate(m)
		tokens := x.tokens(symbol, account)

		collateralPrice := rate.Mul(price)
		weightedPrice := weight.Of(&risk).Mul(collateralPrice)

		totalCollateral = totalCollateral.Add(collateralPrice.Mul(tokens))
		weightedCollateral = weightedCollateral.Add(weightedPrice.Mul(tokens))
		borrows = borrows.Add(price.Mul(x.borrowBalance(m, account)))

		if symbol == modify {
			effects = effects.Add(weightedPrice.Mul(redeemTokens))
			effects = effects.Add(price.Mul(borrowAmount))
		}
	}

	liquidity := &core.AccountLiquidity{
		Weight:             weight,
		TotalCollateral:    truncate(totalCollateral),
		WeightedCollateral: truncate(weightedCollateral),
		Borrows:            truncate(borrows),
		Effects:            truncate(effects),
		Liquidity:          decimal.Zero,
		Shortfall:          decimal.Zero,
	}

	debt := liquidity.Borrows.Add(liquidity.Effects)
	if liquidity.WeightedCollateral.GreaterThan(debt) {
		liquidity.Liquidity = liquidity.WeightedCollateral.Sub(debt)
	} else {
		liquidity.Shortfall = debt.Sub(liquidity.WeightedCollateral)
	}

	return liquidity, nil
}

// classify places the account in the solvency state machine
func (x *op) classify(account string) (core.SolvencyState, *core.AccountLiquidity, error) {
	snapshot, err := x.snapshot(account, "", decimal.Zero, decimal.Zero, core.WeightLiquidationThreshold, false)
	if err != nil {
		return "", nil, err
	}

	pool := x.pool()
	switch {
	case !snapshot.Shortfall.IsPositive():
		return core.SolvencyHealthy, snapshot, nil
	case snapshot.TotalCollateral.GreaterThan(pool.MinLiquidatableCollateral):
		return core.SolvencyLiquidatableOrdinary, snapshot, nil
	case truncate(pool.LiquidationIncentive.Mul(snapshot.Borrows)).LessThan(snapshot.TotalCollateral):
		return core.SolvencyFullyLiquidatable, snapshot, nil
	default:
		return core.SolvencyHealable, snapshot, nil
	}
}
