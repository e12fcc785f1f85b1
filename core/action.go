package core

// ActionType audit record kind
type ActionType string

const (
	ActionTypeAccrueInterest     ActionType = "accrue_interest"
	ActionTypeMint               ActionType = "mint"
	ActionTypeRedeem             ActionType = "redeem"
	ActionTypeBorrow             ActionType = "borrow"
	ActionTypeRepayBorrow        ActionType = "repay_borrow"
	ActionTypeTransfer           ActionType = "transfer"
	ActionTypeLiquidateBorrow    ActionType = "liquidate_borrow"
	ActionTypeSeize              ActionType = "seize"
	ActionTypeHealBorrow         ActionType = "heal_borrow"
	ActionTypeHealAccount        ActionType = "heal_account"
	ActionTypeLiquidateAccount   ActionType = "liquidate_account"
	ActionTypeBadDebtRecovered   ActionType = "bad_debt_recovered"
	ActionTypeEnterMarket        ActionType = "enter_market"
	ActionTypeExitMarket         ActionType = "exit_market"
	ActionTypeAddReserves        ActionType = "add_reserves"
	ActionTypeReduceReserves     ActionType = "reduce_reserves"
	ActionTypeDeposit            ActionType = "deposit"
	ActionTypeCreatePool         ActionType = "create_pool"
	ActionTypeSupportMarket      ActionType = "support_market"
	ActionTypeGrantPermission    ActionType = "grant_permission"
	ActionTypeRevokePermission   ActionType = "revoke_permission"
	ActionTypeSetCloseFactor     ActionType = "set_close_factor"
	ActionTypeSetCollateral      ActionType = "set_collateral_factor"
	ActionTypeSetIncentive       ActionType = "set_liquidation_incentive"
	ActionTypeSetMinLiquidatable ActionType = "set_min_liquidatable_collateral"
	ActionTypeSetSupplyCap       ActionType = "set_market_supply_cap"
	ActionTypeSetBorrowCap       ActionType = "set_market_borrow_cap"
	ActionTypeSetActionPaused    ActionType = "set_action_paused"
	ActionTypeSetMaxLoopsLimit   ActionType = "set_max_loops_limit"
	ActionTypeSetPriceOracle     ActionType = "set_price_oracle"
	ActionTypeSetAuction         ActionType = "set_shortfall_auction"
	ActionTypeSetReserveFactor   ActionType = "set_reserve_factor"
	ActionTypeSetSeizeShare      ActionType = "set_protocol_seize_share"
	ActionTypeSetRateModel       ActionType = "set_interest_rate_model"
)

func (a ActionType) String() string {
	return string(a)
}
