package compound

import (
	"time"

	"github.com/pkg/errors"
)

// GetBlockByTime index of the accrual period containing t, periods are
// secondsPerBlock long and period 0 starts at genesis
func GetBlockByTime(secondsPerBlock, genesis int64, t time.Time) (int64, error) {
	if secondsPerBlock <= 0 {
		return 0, errors.Errorf("seconds per block must be positive, got %d", secondsPerBlock)
	}

	seconds := t.UTC().Unix() - genesis
	if seconds < 0 {
		return 0, errors.Errorf("%s is before genesis %d", t.UTC().Format(time.RFC3339), genesis)
	}

	return seconds / secondsPerBlock, nil
}

// BlockTime start of the accrual period
func BlockTime(secondsPerBlock, genesis, block int64) time.Time {
	return time.Unix(genesis+block*secondsPerBlock, 0).UTC()
}
