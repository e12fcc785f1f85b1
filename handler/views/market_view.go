package views

import (
	"lendpool/core"
)

// Market market view
type Market struct {
	*core.MarketSnapshot
	Paused []core.Action `json:"paused,omitempty"`
}

// Account account view
type Account struct {
	PoolID    string                  `json:"pool_id"`
	Account   string                  `json:"account"`
	AssetsIn  []string                `json:"assets_in"`
	State     core.SolvencyState      `json:"state"`
	Liquidity *core.AccountLiquidity  `json:"liquidity"`
	Positions []*core.AccountSnapshot `json:"positions"`
}

// Transactions page of audit records
type Transactions struct {
	Transactions []*core.Transaction `json:"transactions"`
	NextFrom     int64               `json:"next_from,omitempty"`
}
