package compound

import (
	"testing"

	"lendpool/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestUtilizationRate(t *testing.T) {
	cases := []struct {
		name                             string
		cash, borrows, reserves, badDebt string
		want                             string
	}{
		{"no borrows", "100", "0", "0", "0", "0"},
		{"half", "50", "50", "0", "0", "0.5"},
		{"reserves", "60", "50", "10", "0", "0.5"},
		{"bad debt counts as lent", "50", "25", "0", "25", "0.5"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := UtilizationRate(d(c.cash), d(c.borrows), d(c.reserves), d(c.badDebt))
			assert.True(t, d(c.want).Equal(got), "got %s", got)
		})
	}
}

func TestGetExchangeRate(t *testing.T) {
	initial := d("0.02")
	assert.True(t, initial.Equal(GetExchangeRate(d("100"), d("0"), d("0"), d("0"), decimal.Zero, initial)))

	rate := GetExchangeRate(d("80"), d("30"), d("10"), d("0"), d("5000"), initial)
	assert.Equal(t, "0.02", rate.String())

	rate = GetExchangeRate(d("80"), d("30"), d("10"), d("10"), d("5000"), initial)
	assert.Equal(t, "0.022", rate.String())
}

func TestJumpRateModel(t *testing.T) {
	m := NewJumpRateModel(d("0.02"), d("0.1"), d("1.09"), d("0.8"))

	below := m.BorrowRate(d("50"), d("50"), d("0"), d("0"))
	expected := d("0.5").Mul(m.MultiplierPerBlock).Add(m.BaseRatePerBlock).Truncate(MaxPricision)
	assert.True(t, expected.Equal(below))

	above := m.BorrowRate(d("10"), d("90"), d("0"), d("0"))
	normal := d("0.8").Mul(m.MultiplierPerBlock).Add(m.BaseRatePerBlock)
	assert.True(t, above.GreaterThan(normal))

	supply := m.SupplyRate(d("50"), d("50"), d("0"), d("0.1"), d("0"))
	assert.True(t, supply.LessThan(below))
	assert.True(t, supply.IsPositive())
}

func TestWhitePaperModel(t *testing.T) {
	m := NewWhitePaperModel(d("0.05"), d("0.45"))
	assert.True(t, m.BaseRatePerBlock.Equal(m.BorrowRate(d("100"), d("0"), d("0"), d("0"))))

	full := m.BorrowRate(d("0"), d("100"), d("0"), d("0"))
	assert.True(t, m.BaseRatePerBlock.Add(m.MultiplierPerBlock).Equal(full))
}

func TestNewRateModel(t *testing.T) {
	_, ok := NewRateModel(&core.Market{RateModel: core.RateModelWhitePaper}).(*WhitePaperModel)
	assert.True(t, ok)

	_, ok = NewRateModel(&core.Market{RateModel: core.RateModelJump}).(*JumpRateModel)
	assert.True(t, ok)
}

func TestAccrueInterest(t *testing.T) {
	market := &core.Market{
		TotalBorrows:  d("1000"),
		TotalReserves: d("0"),
		ReserveFactor: d("0.1"),
		BorrowIndex:   d("1"),
	}
	model := &JumpRateModel{BaseRatePerBlock: d("0.0001")}

	accrual, err := AccrueInterest(market, model, d("1000"), 10)
	require.NoError(t, err)
	assert.Equal(t, "1", accrual.InterestAccumulated.String())
	assert.Equal(t, "1001", accrual.TotalBorrows.String())
	assert.Equal(t, "0.1", accrual.TotalReserves.String())
	assert.Equal(t, "1.001", accrual.BorrowIndex.String())

	_, err = AccrueInterest(market, &JumpRateModel{BaseRatePerBlock: d("0.001")}, d("1000"), 1)
	assert.ErrorIs(t, err, core.ErrBorrowRateTooHigh)
}

func TestTokensForAmount(t *testing.T) {
	rate := d("3")
	assert.Equal(t, "0.333333333333333333", TokensForAmount(d("1"), rate, false).String())
	assert.Equal(t, "0.333333333333333334", TokensForAmount(d("1"), rate, true).String())
	assert.Equal(t, "5", TokensForAmount(d("15"), rate, true).String())
}

func TestSeizeTokens(t *testing.T) {
	tokens, err := SeizeTokens(d("100"), d("1.1"), d("1"), d("2"), d("0.5"))
	require.NoError(t, err)
	assert.Equal(t, "110", tokens.String())

	_, err = SeizeTokens(d("100"), d("1.1"), d("0"), d("2"), d("0.5"))
	assert.ErrorIs(t, err, core.ErrInvalidPrice)

	assert.Equal(t, "2.8", ProtocolSeizeTokens(d("110"), d("0.028"), d("1.1")).String())
	assert.True(t, ProtocolSeizeTokens(d("110"), d("0"), d("1.1")).IsZero())
}

func TestBorrowBalance(t *testing.T) {
	assert.Equal(t, "110", BorrowBalance(d("100"), d("1"), d("1.1")).String())
	assert.True(t, BorrowBalance(d("0"), d("1"), d("1.1")).IsZero())
}
