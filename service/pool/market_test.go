package pool

import (
	"testing"

	"lendpool/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintRedeem(t *testing.T) {
	env := newEnv(t)

	assertDecimal(t, "1000", env.account(t, bob, "USDC").Tokens)
	assertDecimal(t, "9000", env.balance(t, "usdc", bob))

	require.NoError(t, env.engine.Redeem(env.ctx, testPool, "USDC", bob, d("40"), decimal.Zero))
	assertDecimal(t, "960", env.account(t, bob, "USDC").Tokens)
	assertDecimal(t, "9040", env.balance(t, "usdc", bob))

	require.NoError(t, env.engine.Redeem(env.ctx, testPool, "USDC", bob, decimal.Zero, d("60")))
	assertDecimal(t, "900", env.account(t, bob, "USDC").Tokens)
	assertDecimal(t, "9100", env.balance(t, "usdc", bob))

	// payer and minter may differ
	require.NoError(t, env.engine.Mint(env.ctx, testPool, "USDC", carol, alice, d("10")))
	assertDecimal(t, "10", env.account(t, alice, "USDC").Tokens)
	assertDecimal(t, "9990", env.balance(t, "usdc", carol))

	err := env.engine.Redeem(env.ctx, testPool, "USDC", bob, d("1"), d("1"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount, "exactly one of tokens and amount")

	err = env.engine.Redeem(env.ctx, testPool, "USDC", bob, d("901"), decimal.Zero)
	assert.ErrorIs(t, err, core.ErrInsufficientBalance)

	err = env.engine.Redeem(env.ctx, testPool, "USDC", bob, d("911"), decimal.Zero)
	assert.ErrorIs(t, err, core.ErrInsufficientCash)

	err = env.engine.Mint(env.ctx, testPool, "USDC", bob, bob, d("-1"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	err = env.engine.Mint(env.ctx, testPool, "USDC", alice, alice, d("1"))
	assert.ErrorIs(t, err, core.ErrInsufficientBalance, "alice holds no usdc")
}

func TestRoundTripAfterInterest(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("50")))
	env.advance(50000)
	require.NoError(t, env.engine.AccrueInterest(env.ctx, testPool, "USDC"))

	rate := env.market(t, "USDC").ExchangeRate
	require.True(t, rate.GreaterThan(d("1")))

	before := env.balance(t, "usdc", bob)
	require.NoError(t, env.engine.Redeem(env.ctx, testPool, "USDC", bob, d("100"), decimal.Zero))
	received := env.balance(t, "usdc", bob).Sub(before)

	require.NoError(t, env.engine.Mint(env.ctx, testPool, "USDC", bob, bob, received))
	diff := d("1000").Sub(env.account(t, bob, "USDC").Tokens).Abs()
	assert.True(t, diff.LessThanOrEqual(d("0.000000000000001")), "round trip lost %s tokens", diff)

	// redeeming by amount never burns less than the amount is worth
	tokens := env.account(t, bob, "USDC").Tokens
	rate = env.market(t, "USDC").ExchangeRate
	require.NoError(t, env.engine.Redeem(env.ctx, testPool, "USDC", bob, decimal.Zero, d("10")))
	burned := tokens.Sub(env.account(t, bob, "USDC").Tokens)
	assert.True(t, burned.Mul(rate).GreaterThanOrEqual(d("10")))
}

func TestAccrueInterest(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("50")))

	before := env.market(t, "USDC")
	env.advance(1000)

	require.NoError(t, env.engine.AccrueInterest(env.ctx, testPool, "USDC"))
	after := env.market(t, "USDC")
	assert.EqualValues(t, 1000, after.AccrualBlock)
	assert.True(t, after.BorrowIndex.GreaterThan(before.BorrowIndex))
	assert.True(t, after.TotalBorrows.GreaterThan(before.TotalBorrows))
	assert.True(t, after.TotalReserves.GreaterThan(before.TotalReserves))
	assert.True(t, after.ExchangeRate.GreaterThan(before.ExchangeRate))
	assert.True(t, env.account(t, alice, "USDC").BorrowBalance.GreaterThan(d("50")))

	// a second accrual in the same block changes nothing and records nothing
	records := len(env.store.Transactions())
	require.NoError(t, env.engine.AccrueInterest(env.ctx, testPool, "USDC"))
	again := env.market(t, "USDC")
	assert.True(t, after.BorrowIndex.Equal(again.BorrowIndex))
	assert.True(t, after.TotalBorrows.Equal(again.TotalBorrows))
	assert.Len(t, env.store.Transactions(), records)

	err := env.engine.AccrueInterest(env.ctx, testPool, "BTC")
	assert.ErrorIs(t, err, core.ErrMarketNotFound)
}

func TestExchangeRateNeverDecreases(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("20")))

	last := env.market(t, "USDC").ExchangeRate
	steps := []func() error{
		func() error { return env.engine.AccrueInterest(env.ctx, testPool, "USDC") },
		func() error { return env.engine.Mint(env.ctx, testPool, "USDC", carol, carol, d("333.333333")) },
		func() error { return env.engine.RepayBorrow(env.ctx, testPool, "USDC", carol, alice, d("7")) },
		func() error { return env.engine.Redeem(env.ctx, testPool, "USDC", bob, d("123.456"), decimal.Zero) },
		func() error { return env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("3")) },
	}

	for round := 0; round < 4; round++ {
		for _, step := range steps {
			env.advance(97)
			require.NoError(t, step())

			rate := env.market(t, "USDC").ExchangeRate
			assert.True(t, rate.GreaterThanOrEqual(last), "rate dropped from %s to %s", last, rate)
			last = rate
		}
	}
}

func TestConservation(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("45")))
	env.advance(3000)
	require.NoError(t, env.engine.Mint(env.ctx, testPool, "USDC", carol, carol, d("250")))
	env.advance(3000)
	require.NoError(t, env.engine.RepayBorrow(env.ctx, testPool, "USDC", carol, alice, d("20")))
	env.advance(3000)
	require.NoError(t, env.engine.Redeem(env.ctx, testPool, "USDC", bob, d("300"), decimal.Zero))
	require.NoError(t, env.engine.Transfer(env.ctx, testPool, "USDC", carol, bob, d("50")))

	m := env.market(t, "USDC")
	tokens := env.account(t, bob, "USDC").Tokens.Add(env.account(t, carol, "USDC").Tokens)
	assert.True(t, tokens.Equal(m.TotalSupply))

	claims := m.TotalSupply.Mul(m.ExchangeRate)
	backing := m.Cash.Add(m.TotalBorrows).Sub(m.TotalReserves).Add(m.BadDebt)
	assert.True(t, backing.Sub(claims).Abs().LessThan(d("0.000000000001")), "claims %s backing %s", claims, backing)
}

func TestBorrowSolvency(t *testing.T) {
	env := newEnv(t)

	// 10 ETH at 10 with a 0.5 collateral factor backs 50 USDC
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("50")))
	assertDecimal(t, "50", env.balance(t, "usdc", alice))
	assertDecimal(t, "50", env.account(t, alice, "USDC").BorrowBalance)

	liquidity, err := env.engine.AccountLiquidity(env.ctx, testPool, alice, core.WeightCollateralFactor)
	require.NoError(t, err)
	assert.True(t, liquidity.Liquidity.IsZero())
	assert.True(t, liquidity.Shortfall.IsZero())

	err = env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("0.000001"))
	assert.ErrorIs(t, err, core.ErrInsufficientLiquidity)

	err = env.engine.Redeem(env.ctx, testPool, "ETH", alice, d("0.1"), decimal.Zero)
	assert.ErrorIs(t, err, core.ErrInsufficientLiquidity)

	err = env.engine.Transfer(env.ctx, testPool, "ETH", alice, carol, d("0.1"))
	assert.ErrorIs(t, err, core.ErrInsufficientLiquidity)

	err = env.engine.ExitMarket(env.ctx, testPool, alice, "ETH")
	assert.ErrorIs(t, err, core.ErrInsufficientLiquidity)

	err = env.engine.ExitMarket(env.ctx, testPool, alice, "USDC")
	assert.ErrorIs(t, err, core.ErrNonzeroBorrowBalance)

	hypothetical, err := env.engine.HypotheticalLiquidity(env.ctx, testPool, alice, "ETH", d("2"), decimal.Zero, core.WeightCollateralFactor)
	require.NoError(t, err)
	assertDecimal(t, "10", hypothetical.Shortfall)

	// repaying frees the collateral again
	require.NoError(t, env.engine.RepayBorrow(env.ctx, testPool, "USDC", alice, alice, d("50")))
	assert.True(t, env.account(t, alice, "USDC").BorrowBalance.IsZero())
	require.NoError(t, env.engine.ExitMarket(env.ctx, testPool, alice, "USDC"))
	require.NoError(t, env.engine.Redeem(env.ctx, testPool, "ETH", alice, d("10"), decimal.Zero))
	assertDecimal(t, "100", env.balance(t, "eth", alice))
}

func TestBorrowWithoutCollateral(t *testing.T) {
	env := newEnv(t)

	// carol supplies but never enters USDC, the claim does not back an ETH borrow
	require.NoError(t, env.engine.Mint(env.ctx, testPool, "USDC", carol, carol, d("100")))
	err := env.engine.Borrow(env.ctx, testPool, "ETH", carol, d("1"))
	assert.ErrorIs(t, err, core.ErrInsufficientLiquidity)

	member, err := env.engine.CheckMembership(env.ctx, testPool, carol, "ETH")
	require.NoError(t, err)
	assert.False(t, member, "failed borrow keeps no membership")

	require.NoError(t, env.engine.EnterMarkets(env.ctx, testPool, carol, []string{"USDC"}))
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "ETH", carol, d("8")))

	assets, err := env.engine.AssetsIn(env.ctx, testPool, carol)
	require.NoError(t, err)
	assert.Equal(t, []string{"USDC", "ETH"}, assets)
}

func TestBorrowCash(t *testing.T) {
	env := newEnv(t)
	env.oracle.set("eth", "100")
	require.NoError(t, env.engine.Mint(env.ctx, testPool, "ETH", alice, alice, d("90")))

	err := env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("1001"))
	assert.ErrorIs(t, err, core.ErrInsufficientCash)

	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("1000")))
	assert.True(t, env.market(t, "USDC").Cash.IsZero())

	err = env.engine.Redeem(env.ctx, testPool, "USDC", bob, d("1"), decimal.Zero)
	assert.ErrorIs(t, err, core.ErrInsufficientCash)
}

func TestRepayBorrow(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("30")))

	// repay on behalf, capped at the outstanding balance
	require.NoError(t, env.engine.RepayBorrow(env.ctx, testPool, "USDC", carol, alice, d("100")))
	assert.True(t, env.account(t, alice, "USDC").BorrowBalance.IsZero())
	assertDecimal(t, "9970", env.balance(t, "usdc", carol))
	assert.True(t, env.market(t, "USDC").TotalBorrows.IsZero())

	borrowers, err := env.engine.Borrowers(env.ctx, testPool)
	require.NoError(t, err)
	assert.Empty(t, borrowers)
}

func TestTransfer(t *testing.T) {
	env := newEnv(t)

	require.NoError(t, env.engine.Transfer(env.ctx, testPool, "USDC", bob, carol, d("10")))
	assertDecimal(t, "990", env.account(t, bob, "USDC").Tokens)
	assertDecimal(t, "10", env.account(t, carol, "USDC").Tokens)

	err := env.engine.Transfer(env.ctx, testPool, "USDC", bob, bob, d("1"))
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	err = env.engine.Transfer(env.ctx, testPool, "USDC", carol, bob, d("11"))
	assert.ErrorIs(t, err, core.ErrInsufficientBalance)
}

func TestCapsAndPauses(t *testing.T) {
	env := newEnv(t)

	require.NoError(t, env.engine.SetMarketSupplyCaps(env.ctx, testPool, owner, []string{"USDC"}, []decimal.Decimal{d("1100")}))
	err := env.engine.Mint(env.ctx, testPool, "USDC", carol, carol, d("101"))
	assert.ErrorIs(t, err, core.ErrSupplyCapReached)
	require.NoError(t, env.engine.Mint(env.ctx, testPool, "USDC", carol, carol, d("100")))

	require.NoError(t, env.engine.SetMarketBorrowCaps(env.ctx, testPool, owner, []string{"USDC"}, []decimal.Decimal{d("20")}))
	err = env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("21"))
	assert.ErrorIs(t, err, core.ErrBorrowCapReached)
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("20")))

	require.NoError(t, env.engine.SetMarketBorrowCaps(env.ctx, testPool, owner, []string{"USDC"}, []decimal.Decimal{core.NoCap}))
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("10")))

	err = env.engine.SetMarketSupplyCaps(env.ctx, testPool, owner, []string{"USDC", "ETH"}, []decimal.Decimal{d("1")})
	assert.ErrorIs(t, err, core.ErrArrayLengthMismatch)

	require.NoError(t, env.engine.SetActionsPaused(env.ctx, testPool, owner, []string{"USDC"}, []core.Action{core.ActionMint, core.ActionRepay}, true))
	paused, err := env.engine.ActionPaused(env.ctx, testPool, "USDC", core.ActionMint)
	require.NoError(t, err)
	assert.True(t, paused)

	err = env.engine.Mint(env.ctx, testPool, "USDC", carol, carol, d("1"))
	assert.ErrorIs(t, err, core.ErrActionPaused)
	err = env.engine.RepayBorrow(env.ctx, testPool, "USDC", alice, alice, d("1"))
	assert.ErrorIs(t, err, core.ErrActionPaused)

	// redeem is a separate action
	require.NoError(t, env.engine.Redeem(env.ctx, testPool, "USDC", carol, d("1"), decimal.Zero))

	require.NoError(t, env.engine.SetActionsPaused(env.ctx, testPool, owner, []string{"USDC"}, []core.Action{core.ActionMint}, false))
	require.NoError(t, env.engine.Mint(env.ctx, testPool, "USDC", carol, carol, d("1")))
}

func TestMaxLoops(t *testing.T) {
	env := newEnv(t)

	p, err := env.engine.Pool(env.ctx, testPool)
	require.NoError(t, err)

	err = env.engine.SetMaxLoopsLimit(env.ctx, testPool, owner, p.MaxLoopsLimit)
	assert.ErrorIs(t, err, core.ErrInvalidParameter, "limit must grow")
	require.NoError(t, env.engine.SetMaxLoopsLimit(env.ctx, testPool, owner, p.MaxLoopsLimit+1))

	symbols := make([]string, p.MaxLoopsLimit+2)
	for idx := range symbols {
		symbols[idx] = "USDC"
	}

	err = env.engine.EnterMarkets(env.ctx, testPool, carol, symbols)
	assert.ErrorIs(t, err, core.ErrTooManyMarkets)
}

func TestFreshnessGate(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("50")))
	env.advance(10)

	err := env.engine.runPool(env.ctx, testPool, core.ActionTypeMint, func(x *op) error {
		return x.mintFresh("USDC", carol, carol, d("100"))
	})
	assert.ErrorIs(t, err, core.ErrAccrualNotFresh)
	assert.Equal(t, core.ClassFreshness, core.ErrAccrualNotFresh.Class())
	assert.True(t, env.account(t, carol, "USDC").Tokens.IsZero())
	assertDecimal(t, "10000", env.balance(t, "usdc", carol))

	err = env.engine.runPool(env.ctx, testPool, core.ActionTypeLiquidateBorrow, func(x *op) error {
		return x.liquidateBorrowFresh("USDC", bob, alice, d("10"), "ETH", true)
	})
	assert.ErrorIs(t, err, core.ErrAccrualNotFresh)

	err = env.engine.runPool(env.ctx, testPool, core.ActionTypeLiquidateBorrow, func(x *op) error {
		if err := x.accrue("USDC"); err != nil {
			return err
		}

		return x.liquidateBorrowFresh("USDC", bob, alice, d("10"), "ETH", true)
	})
	assert.ErrorIs(t, err, core.ErrCollateralNotFresh)
	assert.Equal(t, core.ClassFreshness, core.ErrCollateralNotFresh.Class())
	assertDecimal(t, "10", env.account(t, alice, "ETH").Tokens)

	// the failed calls staged the USDC accrual but never committed it
	current, err := env.blocks.CurrentBlock(env.ctx)
	require.NoError(t, err)
	assert.Less(t, env.market(t, "USDC").AccrualBlock, current)
}
