package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IRewardsDistributor incentive accounting notified by every policy hook
type IRewardsDistributor interface {
	// NotifySupplier supply side balance of account in market is about to change
	NotifySupplier(ctx context.Context, poolID, symbol, account string) error
	// NotifyBorrower borrow side balance of account in market is about to change
	NotifyBorrower(ctx context.Context, poolID, symbol, account string, borrowIndex decimal.Decimal) error
}
