package id

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUUIDFromString(t *testing.T) {
	a := UUIDFromString("pool-1:liquidate")
	assert.Equal(t, a, UUIDFromString("pool-1:liquidate"))
	assert.NotEqual(t, a, UUIDFromString("pool-1:heal"))

	u, err := uuid.FromString(a)
	assert.NoError(t, err)
	assert.Equal(t, byte(3), u.Version())
}

func TestGenTraceID(t *testing.T) {
	assert.NotEqual(t, GenTraceID(), GenTraceID())
}
