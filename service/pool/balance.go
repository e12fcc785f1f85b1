package pool

import (
	"context"

	"lendpool/core"

	"github.com/shopspring/decimal"
)

// move underlying between two balances then lets the transfer hook observe it
func (x *op) move(asset, from, to string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return core.ErrInvalidAmount
	}

	if x.balance(asset, from).LessThan(amount) {
		return core.ErrInsufficientBalance
	}

	if amount.IsZero() || from == to {
		return nil
	}

	x.setBalance(asset, from, x.balance(asset, from).Sub(amount))
	x.setBalance(asset, to, x.balance(asset, to).Add(amount))

	hook := x.e.transferHook()
	if hook == nil {
		return nil
	}

	return x.e.guard.call(func() error {
		return hook.OnTransfer(x.ctx, asset, from, to, amount)
	})
}

// transferIn pulls amount from payer into the market and returns what the market actually received
func (x *op) transferIn(m core.Market, from string, amount decimal.Decimal) (decimal.Decimal, error) {
	before := x.cash(m)
	if err := x.move(m.AssetID, from, m.Address, amount); err != nil {
		return decimal.Zero, err
	}

	return x.cash(m).Sub(before), nil
}

func (x *op) transferOut(m core.Market, to string, amount decimal.Decimal) error {
	return x.move(m.AssetID, m.Address, to, amount)
}

// Deposit credits underlying to account in the balance book
func (e *Engine) Deposit(ctx context.Context, assetID, account string, amount decimal.Decimal) error {
	if assetID == "" || account == "" || !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	return e.run(ctx, "", core.ActionTypeDeposit, func(x *op) error {
		x.setBalance(assetID, account, x.balance(assetID, account).Add(amount))

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyTarget, assetID)
		x.record(core.ActionTypeDeposit, "", account, amount, extra)
		return nil
	})
}

// Balance underlying balance of account
func (e *Engine) Balance(ctx context.Context, assetID, account string) (decimal.Decimal, error) {
	_, release, err := e.guard.enter(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer release()

	return e.state.balances[balanceKey{assetID, account}].Amount, nil
}
