package block

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/internal/compound"

	"github.com/facebookgo/clock"
)

type service struct {
	clock           clock.Clock
	genesis         int64
	secondsPerBlock int64
}

// New new block service, a block is SecondsPerBlock seconds since Genesis
func New(config *core.Config, c clock.Clock) core.IBlockService {
	if c == nil {
		c = clock.New()
	}

	return &service{
		clock:           c,
		genesis:         config.App.Genesis,
		secondsPerBlock: config.App.SecondsPerBlock,
	}
}

// CurrentBlock current block
func (s *service) CurrentBlock(ctx context.Context) (int64, error) {
	return s.GetBlock(ctx, s.clock.Now())
}

// GetBlock get block by time
func (s *service) GetBlock(ctx context.Context, t time.Time) (int64, error) {
	return compound.GetBlockByTime(s.secondsPerBlock, s.genesis, t)
}
