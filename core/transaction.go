package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

const (
	// TransactionKeyTokens claim tokens
	TransactionKeyTokens = "tokens"
	// TransactionKeyBorrower borrower
	TransactionKeyBorrower = "borrower"
	// TransactionKeyCollateral collateral market
	TransactionKeyCollateral = "collateral"
	// TransactionKeySeizeTokens seized claim tokens
	TransactionKeySeizeTokens = "seize_tokens"
	// TransactionKeyProtocolTokens protocol share of seized tokens
	TransactionKeyProtocolTokens = "protocol_tokens"
	// TransactionKeyBadDebt bad debt
	TransactionKeyBadDebt = "bad_debt"
	// TransactionKeyBorrowIndex borrow index
	TransactionKeyBorrowIndex = "borrow_index"
	// TransactionKeyReserves reserves
	TransactionKeyReserves = "reserves"
	// TransactionKeyBlock block
	TransactionKeyBlock = "block"
	// TransactionKeyOld value before an admin change
	TransactionKeyOld = "old"
	// TransactionKeyNew value after an admin change
	TransactionKeyNew = "new"
	// TransactionKeyTarget target of a transfer or permission
	TransactionKeyTarget = "target"
	// TransactionKeyPercentage repaid fraction of a heal
	TransactionKeyPercentage = "percentage"
)

type ExtraDataFormatter interface {
	Format() []byte
}

// TransactionExtraData extra data
type TransactionExtraData map[string]interface{}

// NewTransactionExtra new transaction extra instance
func NewTransactionExtra() TransactionExtraData {
	d := make(TransactionExtraData)
	return d
}

// Put put data
func (t TransactionExtraData) Put(key string, value interface{}) {
	t[key] = value
}

// Format format as []byte by default
func (t TransactionExtraData) Format() []byte {
	bs, e := json.Marshal(t)
	if e != nil {
		return []byte("{}")
	}

	return bs
}

// Transaction immutable audit record of a committed ledger operation
type Transaction struct {
	ID            int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	TraceID       string          `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	PoolID        string          `sql:"size:36;index:idx_transactions_pool_id" json:"pool_id,omitempty"`
	Action        ActionType      `sql:"size:48" json:"action,omitempty"`
	Symbol        string          `sql:"size:20" json:"symbol,omitempty"`
	Account       string          `sql:"size:36;index:idx_transactions_account" json:"account,omitempty"`
	Amount        decimal.Decimal `sql:"type:decimal(38,18)" json:"amount,omitempty"`
	Block         int64           `json:"block,omitempty"`
	ConfigVersion int64           `json:"config_version,omitempty"`
	Data          types.JSONText  `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt     time.Time       `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
}

func (t *Transaction) SetExtraData(extra ExtraDataFormatter) {
	data := []byte("{}")
	if extra != nil {
		data = extra.Format()
	}

	t.Data = data
}

// TransactionStore transaction store interface
type TransactionStore interface {
	Create(ctx context.Context, tx *db.DB, transaction *Transaction) error
	// FindByTraceID returns nil without error when the trace is unknown
	FindByTraceID(ctx context.Context, traceID string) (*Transaction, error)
	List(ctx context.Context, poolID string, fromID int64, limit int) ([]*Transaction, error)
}

// INotifier publishes committed audit records
type INotifier interface {
	Notify(ctx context.Context, transactions []*Transaction) error
}
