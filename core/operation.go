package core

import (
	"context"

	"github.com/fox-one/pkg/store/db"
)

// Action pausable market action
type Action string

const (
	// ActionMint supply
	ActionMint Action = "mint"
	// ActionRedeem withdraw
	ActionRedeem Action = "redeem"
	// ActionBorrow borrow
	ActionBorrow Action = "borrow"
	// ActionRepay repay
	ActionRepay Action = "repay"
	// ActionSeize seize
	ActionSeize Action = "seize"
	// ActionLiquidate liquidate
	ActionLiquidate Action = "liquidate"
	// ActionTransfer claim token transfer
	ActionTransfer Action = "transfer"
	// ActionEnterMarket enter market
	ActionEnterMarket Action = "enter_market"
	// ActionExitMarket exit market
	ActionExitMarket Action = "exit_market"
)

// Actions every pausable action
var Actions = []Action{
	ActionMint, ActionRedeem, ActionBorrow, ActionRepay, ActionSeize,
	ActionLiquidate, ActionTransfer, ActionEnterMarket, ActionExitMarket,
}

func (a Action) String() string {
	return string(a)
}

// CheckAction check action
func CheckAction(action string) bool {
	for _, a := range Actions {
		if a == Action(action) {
			return true
		}
	}

	return false
}

// ActionPause pause flag of an action on a market
type ActionPause struct {
	PoolID string `sql:"size:36;PRIMARY_KEY" json:"pool_id"`
	Symbol string `sql:"size:20;PRIMARY_KEY" json:"symbol"`
	Action Action `sql:"size:32;PRIMARY_KEY" json:"action"`
	Paused bool   `json:"paused"`
}

// IActionPauseStore action pause store interface
type IActionPauseStore interface {
	Save(ctx context.Context, tx *db.DB, pause *ActionPause) error
	ListByPool(ctx context.Context, poolID string) ([]*ActionPause, error)
}
