package rewards

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type distributor struct{}

// New rewards distributor that only traces the notifications,
// incentive accrual itself runs outside of the ledger
func New() core.IRewardsDistributor {
	return &distributor{}
}

func (d *distributor) NotifySupplier(ctx context.Context, poolID, symbol, account string) error {
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"pool":    poolID,
		"market":  symbol,
		"account": account,
	}).Debugln("update supply index")
	return nil
}

func (d *distributor) NotifyBorrower(ctx context.Context, poolID, symbol, account string, borrowIndex decimal.Decimal) error {
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"pool":         poolID,
		"market":       symbol,
		"account":      account,
		"borrow_index": borrowIndex,
	}).Debugln("update borrow index")
	return nil
}
