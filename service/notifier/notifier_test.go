package notifier

import (
	"context"
	"testing"

	"lendpool/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "lendpool.p1.mint", Subject("lendpool", &core.Transaction{
		PoolID: "p1",
		Action: core.ActionTypeMint,
	}))

	assert.Equal(t, "lendpool.global.deposit", Subject("lendpool", &core.Transaction{
		Action: core.ActionTypeDeposit,
	}))
}

func TestLogNotifier(t *testing.T) {
	err := Log().Notify(context.Background(), []*core.Transaction{
		{TraceID: "trace", PoolID: "p1", Action: core.ActionTypeBorrow, Amount: decimal.NewFromInt(1)},
	})
	assert.NoError(t, err)
}
