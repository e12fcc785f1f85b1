package pool

import (
	"context"
	"sync"
	"sync/atomic"

	"lendpool/core"
)

type guardKey struct{}

// guard serializes entry points and rejects nested entry. A nested call is
// recognised either by the context it carries or by arriving while external
// code runs inside an operation.
type guard struct {
	mu       sync.Mutex
	external atomic.Bool
}

func (g *guard) enter(ctx context.Context) (context.Context, func(), error) {
	if ctx.Value(guardKey{}) != nil || g.external.Load() {
		return ctx, nil, core.ErrReentered
	}

	g.mu.Lock()
	return context.WithValue(ctx, guardKey{}, struct{}{}), g.mu.Unlock, nil
}

// call runs fn as untrusted external code
func (g *guard) call(fn func() error) error {
	g.external.Store(true)
	defer g.external.Store(false)

	return fn()
}
