package pool

import (
	"testing"

	"lendpool/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiquidateBorrow(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("50")))

	err := env.engine.LiquidateBorrow(env.ctx, testPool, "USDC", carol, alice, d("10"), "ETH")
	assert.ErrorIs(t, err, core.ErrNoShortfall)

	state, _, err := env.engine.SolvencyState(env.ctx, testPool, alice)
	require.NoError(t, err)
	assert.Equal(t, core.SolvencyHealthy, state)

	// 10 ETH at 8 weighted by 0.6 no longer covers 50 USDC
	env.oracle.set("eth", "8")
	state, liquidity, err := env.engine.SolvencyState(env.ctx, testPool, alice)
	require.NoError(t, err)
	assert.Equal(t, core.SolvencyLiquidatableOrdinary, state)
	assertDecimal(t, "2", liquidity.Shortfall)

	err = env.engine.LiquidateBorrow(env.ctx, testPool, "USDC", carol, alice, d("25.000000000000000001"), "ETH")
	assert.ErrorIs(t, err, core.ErrTooMuchRepay, "close factor caps the repay")

	err = env.engine.LiquidateBorrow(env.ctx, testPool, "USDC", alice, alice, d("10"), "ETH")
	assert.ErrorIs(t, err, core.ErrSelfLiquidation)

	seize, err := env.engine.LiquidateCalculateSeizeTokens(env.ctx, testPool, "USDC", "ETH", d("25"))
	require.NoError(t, err)
	assertDecimal(t, "3.4375", seize)

	require.NoError(t, env.engine.LiquidateBorrow(env.ctx, testPool, "USDC", carol, alice, d("25"), "ETH"))
	assertDecimal(t, "25", env.account(t, alice, "USDC").BorrowBalance)
	assertDecimal(t, "6.5625", env.account(t, alice, "ETH").Tokens)
	assertDecimal(t, "3.4375", env.account(t, carol, "ETH").Tokens)
	assertDecimal(t, "9975", env.balance(t, "usdc", carol))

	var kinds []core.ActionType
	for _, tx := range env.notifier.transactions {
		kinds = append(kinds, tx.Action)
	}
	assert.Contains(t, kinds, core.ActionTypeSeize)
	assert.Contains(t, kinds, core.ActionTypeLiquidateBorrow)
}

func TestLiquidateBorrowProtocolShare(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.engine.SetProtocolSeizeShare(env.ctx, testPool, owner, "ETH", d("0.05")))
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("50")))
	env.oracle.set("eth", "8")

	require.NoError(t, env.engine.LiquidateBorrow(env.ctx, testPool, "USDC", carol, alice, d("25"), "ETH"))

	// 3.4375 seized, 0.05/1.1 of it burned into reserves
	assertDecimal(t, "6.5625", env.account(t, alice, "ETH").Tokens)
	assertDecimal(t, "3.28125", env.account(t, carol, "ETH").Tokens)

	eth := env.market(t, "ETH")
	assertDecimal(t, "9.84375", eth.TotalSupply)
	assertDecimal(t, "0.15625", eth.TotalReserves)
}

func TestLiquidateBorrowMinimalCollateral(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("50")))
	require.NoError(t, env.engine.SetMinLiquidatableCollateral(env.ctx, testPool, owner, d("1000")))
	env.oracle.set("eth", "8")

	err := env.engine.LiquidateBorrow(env.ctx, testPool, "USDC", carol, alice, d("10"), "ETH")
	assert.ErrorIs(t, err, core.ErrMinimalCollateralViolated)
}

func TestLiquidateDeprecatedMarket(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.engine.Mint(env.ctx, testPool, "ETH", alice, alice, d("10")))
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("20")))

	require.NoError(t, env.engine.SetCollateralFactor(env.ctx, testPool, owner, "USDC", decimal.Zero, d("0.9")))
	require.NoError(t, env.engine.SetActionsPaused(env.ctx, testPool, owner, []string{"USDC"}, []core.Action{core.ActionBorrow}, true))
	require.NoError(t, env.engine.SetReserveFactor(env.ctx, testPool, owner, "USDC", d("1")))

	// healthy, but the whole borrow of a deprecated market may be repaid
	require.NoError(t, env.engine.LiquidateBorrow(env.ctx, testPool, "USDC", carol, alice, d("20"), "ETH"))
	assert.True(t, env.account(t, alice, "USDC").BorrowBalance.IsZero())
	assertDecimal(t, "2.2", env.account(t, carol, "ETH").Tokens)
}

// healEnv alice holds 100 usd of collateral against 100 usd of debt
func healEnv(t *testing.T) *testEnv {
	env := newEnv(t)
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("50")))
	require.NoError(t, env.engine.SetMinLiquidatableCollateral(env.ctx, testPool, owner, d("1000")))
	env.oracle.set("usdc", "2")
	return env
}

func TestHealAccount(t *testing.T) {
	env := healEnv(t)

	state, liquidity, err := env.engine.SolvencyState(env.ctx, testPool, alice)
	require.NoError(t, err)
	assert.Equal(t, core.SolvencyHealable, state)
	assertDecimal(t, "100", liquidity.TotalCollateral)
	assertDecimal(t, "100", liquidity.Borrows)

	err = env.engine.LiquidateAccount(env.ctx, testPool, carol, alice, []*core.LiquidationOrder{
		{BorrowSymbol: "USDC", CollateralSymbol: "ETH", RepayAmount: d("50")},
	})
	assert.ErrorIs(t, err, core.ErrInsufficientCollateral, "collateral does not cover debt plus incentive")

	require.NoError(t, env.engine.HealAccount(env.ctx, testPool, carol, alice))

	// percentage = 100 / (100 * 1.1)
	repaid := d("45.4545454545454545")
	badDebt := d("4.5454545454545455")

	assert.True(t, env.account(t, alice, "ETH").Tokens.IsZero())
	assert.True(t, env.account(t, alice, "USDC").BorrowBalance.IsZero())
	assertDecimal(t, "10", env.account(t, carol, "ETH").Tokens)
	assert.True(t, d("10000").Sub(repaid).Equal(env.balance(t, "usdc", carol)))

	usdc := env.market(t, "USDC")
	assert.True(t, badDebt.Equal(usdc.BadDebt), "bad debt %s", usdc.BadDebt)
	assert.True(t, usdc.TotalBorrows.IsZero())
	assert.True(t, repaid.Add(badDebt).Equal(d("50")))

	state, _, err = env.engine.SolvencyState(env.ctx, testPool, alice)
	require.NoError(t, err)
	assert.Equal(t, core.SolvencyHealthy, state)

	// bad debt keeps backing the claim tokens until the auction recovers it
	rate := usdc.ExchangeRate
	assertDecimal(t, "1", rate)

	err = env.engine.BadDebtRecovered(env.ctx, testPool, owner, "USDC", badDebt)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	require.NoError(t, env.engine.SetShortfallAuction(env.ctx, testPool, owner, "auction"))
	require.NoError(t, env.engine.Deposit(env.ctx, "usdc", "auction", d("100")))

	err = env.engine.BadDebtRecovered(env.ctx, testPool, "auction", "USDC", badDebt.Add(d("1")))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	require.NoError(t, env.engine.BadDebtRecovered(env.ctx, testPool, "auction", "USDC", badDebt))
	usdc = env.market(t, "USDC")
	assert.True(t, usdc.BadDebt.IsZero())
	assert.True(t, rate.Equal(usdc.ExchangeRate))
}

func TestHealAccountRejected(t *testing.T) {
	t.Run("collateral above threshold", func(t *testing.T) {
		env := healEnv(t)
		require.NoError(t, env.engine.SetMinLiquidatableCollateral(env.ctx, testPool, owner, d("99")))

		err := env.engine.HealAccount(env.ctx, testPool, carol, alice)
		assert.ErrorIs(t, err, core.ErrCollateralExceedsThreshold)
	})

	t.Run("healthy", func(t *testing.T) {
		env := healEnv(t)
		env.oracle.set("usdc", "1")

		err := env.engine.HealAccount(env.ctx, testPool, carol, alice)
		assert.ErrorIs(t, err, core.ErrNoShortfall)
	})

	t.Run("collateral covers debt with incentive", func(t *testing.T) {
		env := healEnv(t)
		env.oracle.set("usdc", "1.5")

		state, _, err := env.engine.SolvencyState(env.ctx, testPool, alice)
		require.NoError(t, err)
		assert.Equal(t, core.SolvencyFullyLiquidatable, state)

		err = env.engine.HealAccount(env.ctx, testPool, carol, alice)
		assert.ErrorIs(t, err, core.ErrCollateralTooHighToHeal)
		assertDecimal(t, "10", env.account(t, alice, "ETH").Tokens)
	})

	t.Run("liquidator cannot pay", func(t *testing.T) {
		env := healEnv(t)
		before := len(env.store.Changesets())

		err := env.engine.HealAccount(env.ctx, testPool, "nobody", alice)
		assert.ErrorIs(t, err, core.ErrInsufficientBalance)
		assertDecimal(t, "10", env.account(t, alice, "ETH").Tokens)
		assertDecimal(t, "50", env.account(t, alice, "USDC").BorrowBalance)
		assert.Len(t, env.store.Changesets(), before)
	})
}

// liquidateAccountEnv alice holds 100 usd of collateral against 50 usd of debt
func liquidateAccountEnv(t *testing.T) *testEnv {
	env := newEnv(t)
	require.NoError(t, env.engine.SetCollateralFactor(env.ctx, testPool, owner, "ETH", d("0.4"), d("0.45")))
	require.NoError(t, env.engine.Borrow(env.ctx, testPool, "USDC", alice, d("40")))
	require.NoError(t, env.engine.SetMinLiquidatableCollateral(env.ctx, testPool, owner, d("1000")))
	env.oracle.set("usdc", "1.25")
	return env
}

func TestLiquidateAccount(t *testing.T) {
	env := liquidateAccountEnv(t)

	state, liquidity, err := env.engine.SolvencyState(env.ctx, testPool, alice)
	require.NoError(t, err)
	assert.Equal(t, core.SolvencyFullyLiquidatable, state)
	assertDecimal(t, "50", liquidity.Borrows)

	err = env.engine.HealAccount(env.ctx, testPool, carol, alice)
	assert.ErrorIs(t, err, core.ErrCollateralTooHighToHeal)

	require.NoError(t, env.engine.LiquidateAccount(env.ctx, testPool, carol, alice, []*core.LiquidationOrder{
		{BorrowSymbol: "USDC", CollateralSymbol: "ETH", RepayAmount: d("40")},
	}))

	// 40 * 1.25 * 1.1 / 10 ETH tokens seized
	assert.True(t, env.account(t, alice, "USDC").BorrowBalance.IsZero())
	assertDecimal(t, "4.5", env.account(t, alice, "ETH").Tokens)
	assertDecimal(t, "5.5", env.account(t, carol, "ETH").Tokens)
	assertDecimal(t, "9960", env.balance(t, "usdc", carol))

	records := env.store.Transactions()
	assert.Equal(t, core.ActionTypeLiquidateAccount, records[len(records)-1].Action)
}

func TestLiquidateAccountIsAtomic(t *testing.T) {
	env := liquidateAccountEnv(t)
	before := len(env.store.Changesets())

	// the orders leave 10 USDC of debt behind, nothing may stick
	err := env.engine.LiquidateAccount(env.ctx, testPool, carol, alice, []*core.LiquidationOrder{
		{BorrowSymbol: "USDC", CollateralSymbol: "ETH", RepayAmount: d("30")},
	})
	assert.ErrorIs(t, err, core.ErrInvariantViolation)

	assertDecimal(t, "40", env.account(t, alice, "USDC").BorrowBalance)
	assertDecimal(t, "10", env.account(t, alice, "ETH").Tokens)
	assert.True(t, env.account(t, carol, "ETH").Tokens.IsZero())
	assertDecimal(t, "10000", env.balance(t, "usdc", carol))
	assert.Len(t, env.store.Changesets(), before)

	err = env.engine.LiquidateAccount(env.ctx, testPool, carol, alice, []*core.LiquidationOrder{
		{BorrowSymbol: "USDC", CollateralSymbol: "ETH", RepayAmount: d("41")},
	})
	assert.ErrorIs(t, err, core.ErrTooMuchRepay)
}

func TestLiquidateAccountRejected(t *testing.T) {
	t.Run("collateral above threshold", func(t *testing.T) {
		env := liquidateAccountEnv(t)
		require.NoError(t, env.engine.SetMinLiquidatableCollateral(env.ctx, testPool, owner, d("50")))

		err := env.engine.LiquidateAccount(env.ctx, testPool, carol, alice, nil)
		assert.ErrorIs(t, err, core.ErrCollateralExceedsThreshold)
	})

	t.Run("healthy", func(t *testing.T) {
		env := liquidateAccountEnv(t)
		env.oracle.set("usdc", "1")

		err := env.engine.LiquidateAccount(env.ctx, testPool, carol, alice, nil)
		assert.ErrorIs(t, err, core.ErrNoShortfall)
	})

	t.Run("too many orders", func(t *testing.T) {
		env := liquidateAccountEnv(t)

		orders := make([]*core.LiquidationOrder, DefaultMaxLoopsLimit+1)
		for idx := range orders {
			orders[idx] = &core.LiquidationOrder{BorrowSymbol: "USDC", CollateralSymbol: "ETH", RepayAmount: d("1")}
		}

		err := env.engine.LiquidateAccount(env.ctx, testPool, carol, alice, orders)
		assert.ErrorIs(t, err, core.ErrTooManyMarkets)
	})
}
