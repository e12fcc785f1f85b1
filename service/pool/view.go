package pool

import (
	"context"
	"sort"

	"lendpool/core"
	"lendpool/internal/compound"

	"github.com/shopspring/decimal"
)

func (x *op) marketSnapshot(symbol string) (*core.MarketSnapshot, error) {
	m, err := x.market(symbol)
	if err != nil {
		return nil, err
	}

	cash := x.cash(m)
	model := compound.NewRateModel(&m)
	borrowRate := model.BorrowRate(cash, m.TotalBorrows, m.TotalReserves, m.BadDebt)
	supplyRate := model.SupplyRate(cash, m.TotalBorrows, m.TotalReserves, m.ReserveFactor, m.BadDebt)

	return &core.MarketSnapshot{
		Market:             m,
		Cash:               cash,
		ExchangeRate:       x.exchangeRate(m),
		UtilizationRate:    compound.UtilizationRate(cash, m.TotalBorrows, m.TotalReserves, m.BadDebt),
		BorrowRatePerBlock: borrowRate,
		SupplyRatePerBlock: supplyRate,
		BorrowRate:         compound.PerYear(borrowRate),
		SupplyRate:         compound.PerYear(supplyRate),
		Risk:               x.risk(symbol),
	}, nil
}

// MarketSnapshot stored figures of a market, interest is not accrued
func (e *Engine) MarketSnapshot(ctx context.Context, poolID, symbol string) (*core.MarketSnapshot, error) {
	var snapshot *core.MarketSnapshot
	err := e.view(ctx, poolID, func(x *op) (err error) {
		snapshot, err = x.marketSnapshot(symbol)
		return
	})

	return snapshot, err
}

// Markets snapshots of every market of the pool
func (e *Engine) Markets(ctx context.Context, poolID string) ([]*core.MarketSnapshot, error) {
	var snapshots []*core.MarketSnapshot
	err := e.view(ctx, poolID, func(x *op) error {
		for _, symbol := range x.symbols() {
			snapshot, err := x.marketSnapshot(symbol)
			if err != nil {
				return err
			}

			snapshots = append(snapshots, snapshot)
		}

		return nil
	})

	return snapshots, err
}

// AllMarkets every market of every pool
func (e *Engine) AllMarkets(ctx context.Context) ([]*core.Market, error) {
	_, release, err := e.guard.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	markets := make([]*core.Market, 0, len(e.state.markets))
	for _, m := range e.state.markets {
		m := m
		markets = append(markets, &m)
	}

	sort.Slice(markets, func(i, j int) bool {
		if markets[i].PoolID == markets[j].PoolID {
			return markets[i].Symbol < markets[j].Symbol
		}
		return markets[i].PoolID < markets[j].PoolID
	})

	return markets, nil
}

// Risk risk parameters of a market
func (e *Engine) Risk(ctx context.Context, poolID, symbol string) (*core.MarketRisk, error) {
	var risk core.MarketRisk
	err := e.view(ctx, poolID, func(x *op) error {
		if _, err := x.market(symbol); err != nil {
			return err
		}

		risk = x.risk(symbol)
		return nil
	})

	return &risk, err
}

// ActionPaused reports whether action is paused on the market
func (e *Engine) ActionPaused(ctx context.Context, poolID, symbol string, action core.Action) (bool, error) {
	var paused bool
	err := e.view(ctx, poolID, func(x *op) error {
		paused = x.paused(symbol, action)
		return nil
	})

	return paused, err
}

func (x *op) accountSnapshot(symbol, account string) (*core.AccountSnapshot, error) {
	m, err := x.market(symbol)
	if err != nil {
		return nil, err
	}

	return &core.AccountSnapshot{
		Symbol:        symbol,
		Tokens:        x.tokens(symbol, account),
		BorrowBalance: x.borrowBalance(m, account),
		ExchangeRate:  x.exchangeRate(m),
	}, nil
}

// AccountSnapshot claim tokens, stored borrow balance and exchange rate of account in a market
func (e *Engine) AccountSnapshot(ctx context.Context, poolID, account, symbol string) (*core.AccountSnapshot, error) {
	var snapshot *core.AccountSnapshot
	err := e.view(ctx, poolID, func(x *op) (err error) {
		snapshot, err = x.accountSnapshot(symbol, account)
		return
	})

	return snapshot, err
}

// AccountSnapshots positions of account in every market it holds claim tokens or borrows in
func (e *Engine) AccountSnapshots(ctx context.Context, poolID, account string) ([]*core.AccountSnapshot, error) {
	var snapshots []*core.AccountSnapshot
	err := e.view(ctx, poolID, func(x *op) error {
		for _, symbol := range x.symbols() {
			snapshot, err := x.accountSnapshot(symbol, account)
			if err != nil {
				return err
			}

			if snapshot.Tokens.IsZero() && snapshot.BorrowBalance.IsZero() {
				continue
			}

			snapshots = append(snapshots, snapshot)
		}

		return nil
	})

	return snapshots, err
}

// AccountLiquidity usd solvency of account under weight, with current oracle prices
func (e *Engine) AccountLiquidity(ctx context.Context, poolID, account string, weight core.Weight) (*core.AccountLiquidity, error) {
	var liquidity *core.AccountLiquidity
	err := e.view(ctx, poolID, func(x *op) (err error) {
		liquidity, err = x.snapshot(account, "", decimal.Zero, decimal.Zero, weight, false)
		return
	})

	return liquidity, err
}

// HypotheticalLiquidity solvency after account redeems redeemTokens and borrows borrowAmount of symbol
func (e *Engine) HypotheticalLiquidity(ctx context.Context, poolID, account, symbol string, redeemTokens, borrowAmount decimal.Decimal, weight core.Weight) (*core.AccountLiquidity, error) {
	var liquidity *core.AccountLiquidity
	err := e.view(ctx, poolID, func(x *op) (err error) {
		if _, err = x.market(symbol); err != nil {
			return
		}

		liquidity, err = x.snapshot(account, symbol, redeemTokens, borrowAmount, weight, false)
		return
	})

	return liquidity, err
}

// SolvencyState liquidation state of account
func (e *Engine) SolvencyState(ctx context.Context, poolID, account string) (core.SolvencyState, *core.AccountLiquidity, error) {
	var (
		state     core.SolvencyState
		liquidity *core.AccountLiquidity
	)

	err := e.view(ctx, poolID, func(x *op) (err error) {
		state, liquidity, err = x.classify(account)
		return
	})

	return state, liquidity, err
}

// AssetsIn markets account entered, in entry order
func (e *Engine) AssetsIn(ctx context.Context, poolID, account string) ([]string, error) {
	var assets []string
	err := e.view(ctx, poolID, func(x *op) error {
		assets = append(assets, x.assetsIn(account)...)
		return nil
	})

	return assets, err
}

// CheckMembership reports whether account entered the market
func (e *Engine) CheckMembership(ctx context.Context, poolID, account, symbol string) (bool, error) {
	var member bool
	err := e.view(ctx, poolID, func(x *op) error {
		member = x.isMember(account, symbol)
		return nil
	})

	return member, err
}

// Borrowers accounts with an open borrow in the pool
func (e *Engine) Borrowers(ctx context.Context, poolID string) ([]string, error) {
	var accounts []string
	err := e.view(ctx, poolID, func(x *op) error {
		accounts = x.borrowers()
		return nil
	})

	return accounts, err
}

// LiquidateCalculateSeizeTokens claim tokens of collateral a liquidator receives for repaying repay of borrowed
func (e *Engine) LiquidateCalculateSeizeTokens(ctx context.Context, poolID, borrowed, collateral string, repay decimal.Decimal) (decimal.Decimal, error) {
	tokens := decimal.Zero
	err := e.view(ctx, poolID, func(x *op) (err error) {
		tokens, err = x.seizeTokens(borrowed, collateral, repay)
		return
	})

	return tokens, err
}
