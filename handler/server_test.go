package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lendpool/core"
	"lendpool/pkg/metrics"
	"lendpool/service/block"
	"lendpool/service/pool"
	"lendpool/service/rewards"
	"lendpool/store/ledger"

	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPool = "5d1c0f7e-2b8a-4d55-9a61-0c1e3f4b7a20"
	owner    = "owner"
	admin    = "admin"
)

type staticOracle map[string]decimal.Decimal

func (o staticOracle) GetPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	return o[assetID], nil
}

func (o staticOracle) UpdatePrice(ctx context.Context, assetID string) error {
	return nil
}

type memoryTransactions struct {
	records []*core.Transaction
}

func (s *memoryTransactions) Create(ctx context.Context, tx *db.DB, t *core.Transaction) error {
	t.ID = int64(len(s.records) + 1)
	s.records = append(s.records, t)
	return nil
}

func (s *memoryTransactions) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	for _, t := range s.records {
		if t.TraceID == traceID {
			return t, nil
		}
	}

	return nil, nil
}

func (s *memoryTransactions) List(ctx context.Context, poolID string, fromID int64, limit int) ([]*core.Transaction, error) {
	var out []*core.Transaction
	for _, t := range s.records {
		if t.ID > fromID && (poolID == "" || t.PoolID == poolID) && len(out) < limit {
			out = append(out, t)
		}
	}

	return out, nil
}

type recorder struct {
	transactions *memoryTransactions
}

func (r recorder) Notify(ctx context.Context, transactions []*core.Transaction) error {
	for _, t := range transactions {
		_ = r.transactions.Create(ctx, nil, t)
	}

	return nil
}

func newServer(t *testing.T) (*pool.Engine, http.Handler) {
	ctx := context.Background()
	transactions := &memoryTransactions{}

	blocks := block.New(&core.Config{App: core.App{SecondsPerBlock: 15}}, clock.NewMock())
	oracle := staticOracle{"usdc": decimal.NewFromInt(1), "eth": decimal.NewFromInt(10)}
	engine := pool.New(ledger.Memory(), blocks, oracle, rewards.New(), recorder{transactions}, metrics.Nop())
	require.NoError(t, engine.Load(ctx))

	require.NoError(t, engine.CreatePool(ctx, &core.Pool{
		ID:                   testPool,
		Name:                 "main",
		Owner:                owner,
		CloseFactor:          decimal.RequireFromString("0.5"),
		LiquidationIncentive: decimal.RequireFromString("1.1"),
		MaxLoopsLimit:        16,
	}))

	for _, m := range []struct{ symbol, asset string }{{"USDC", "usdc"}, {"ETH", "eth"}} {
		require.NoError(t, engine.SupportMarket(ctx, testPool, owner, &core.MarketParams{
			Symbol:              m.symbol,
			AssetID:             m.asset,
			InitialExchangeRate: decimal.NewFromInt(1),
			ReserveFactor:       decimal.RequireFromString("0.1"),
			RateModel: core.RateModelParams{
				Kind:       core.RateModelWhitePaper,
				BaseRate:   decimal.RequireFromString("0.02"),
				Multiplier: decimal.RequireFromString("0.2"),
			},
			CollateralFactor:     decimal.RequireFromString("0.5"),
			LiquidationThreshold: decimal.RequireFromString("0.6"),
			SupplyCap:            core.NoCap,
			BorrowCap:            core.NoCap,
		}))
	}

	require.NoError(t, engine.Deposit(ctx, "usdc", "bob", decimal.NewFromInt(1000)))
	require.NoError(t, engine.Deposit(ctx, "eth", "alice", decimal.NewFromInt(10)))

	return engine, New(engine, transactions, &core.Config{Admins: []string{admin}}).HandleRestAPI()
}

func do(t *testing.T, h http.Handler, method, path, account, body string) (int, map[string]json.RawMessage) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if account != "" {
		req.Header.Set("X-Account", account)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func TestListPools(t *testing.T) {
	_, h := newServer(t)

	status, resp := do(t, h, http.MethodGet, "/pools", "", "")
	require.Equal(t, http.StatusOK, status)

	var pools []*core.Pool
	require.NoError(t, json.Unmarshal(resp["data"], &pools))
	require.Len(t, pools, 1)
	assert.Equal(t, testPool, pools[0].ID)
}

func TestCreatePool(t *testing.T) {
	_, h := newServer(t)

	body := `{"name":"isolated","owner":"carol","close_factor":"0.5","liquidation_incentive":"1.08"}`
	status, resp := do(t, h, http.MethodPost, "/pools", "bob", body)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "100200", string(resp["code"]))

	status, resp = do(t, h, http.MethodPost, "/pools", admin, body)
	require.Equal(t, http.StatusOK, status)

	var created core.Pool
	require.NoError(t, json.Unmarshal(resp["data"], &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "carol", created.Owner)
	assert.Equal(t, pool.DefaultMaxLoopsLimit, created.MaxLoopsLimit)

	status, _ = do(t, h, http.MethodPost, "/pools", admin, body)
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = do(t, h, http.MethodGet, "/pools", "", "")
	require.Equal(t, http.StatusOK, status)

	var pools []*core.Pool
	require.NoError(t, json.Unmarshal(resp["data"], &pools))
	assert.Len(t, pools, 2)
}

func TestMarketNotFound(t *testing.T) {
	_, h := newServer(t)

	status, resp := do(t, h, http.MethodGet, "/pools/"+testPool+"/markets/doge", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "100100", string(resp["code"]))
}

func TestSupplyAndAccount(t *testing.T) {
	_, h := newServer(t)

	status, _ := do(t, h, http.MethodPost, "/pools/"+testPool+"/markets/usdc/supply", "", `{"amount":"100"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, resp := do(t, h, http.MethodPost, "/pools/"+testPool+"/markets/usdc/supply", "bob", `{"amount":"100"}`)
	require.Equal(t, http.StatusOK, status)

	var market core.MarketSnapshot
	require.NoError(t, json.Unmarshal(resp["data"], &market))
	assert.Equal(t, "100", market.TotalSupply.String())
	assert.Equal(t, "100", market.Cash.String())

	status, resp = do(t, h, http.MethodPost, "/pools/"+testPool+"/accounts/bob/enter", "bob", `{"symbols":["usdc"]}`)
	require.Equal(t, http.StatusOK, status)

	var account struct {
		AssetsIn  []string                `json:"assets_in"`
		State     core.SolvencyState      `json:"state"`
		Liquidity *core.AccountLiquidity  `json:"liquidity"`
		Positions []*core.AccountSnapshot `json:"positions"`
	}
	require.NoError(t, json.Unmarshal(resp["data"], &account))
	assert.Equal(t, []string{"USDC"}, account.AssetsIn)
	assert.Equal(t, core.SolvencyHealthy, account.State)
	assert.Equal(t, "50", account.Liquidity.Liquidity.String())

	status, resp = do(t, h, http.MethodGet, "/pools/"+testPool+"/accounts/bob?weight=liquidation", "", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp["data"], &account))
	assert.Equal(t, "60", account.Liquidity.Liquidity.String())

	status, _ = do(t, h, http.MethodGet, "/pools/"+testPool+"/accounts/bob?weight=max", "", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBorrowShortfall(t *testing.T) {
	_, h := newServer(t)

	status, _ := do(t, h, http.MethodPost, "/pools/"+testPool+"/markets/eth/supply", "alice", `{"amount":"10"}`)
	require.Equal(t, http.StatusOK, status)

	status, resp := do(t, h, http.MethodPost, "/pools/"+testPool+"/markets/eth/borrow", "bob", `{"amount":"1"}`)
	assert.Equal(t, http.StatusPreconditionFailed, status)
	assert.Equal(t, "100106", string(resp["code"]))
}

func TestEnterOtherAccount(t *testing.T) {
	_, h := newServer(t)

	status, resp := do(t, h, http.MethodPost, "/pools/"+testPool+"/accounts/alice/enter", "bob", `{"symbols":["ETH"]}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "100200", string(resp["code"]))
}

func TestTransactions(t *testing.T) {
	_, h := newServer(t)

	for i := 0; i < 3; i++ {
		status, _ := do(t, h, http.MethodPost, "/pools/"+testPool+"/markets/usdc/supply", "bob", `{"amount":"10"}`)
		require.Equal(t, http.StatusOK, status)
	}

	status, resp := do(t, h, http.MethodGet, "/pools/"+testPool+"/transactions?limit=2", "", "")
	require.Equal(t, http.StatusOK, status)

	var page struct {
		Transactions []*core.Transaction `json:"transactions"`
		NextFrom     int64               `json:"next_from"`
	}
	require.NoError(t, json.Unmarshal(resp["data"], &page))
	require.Len(t, page.Transactions, 2)
	assert.Equal(t, page.Transactions[1].ID, page.NextFrom)

	traceID := page.Transactions[0].TraceID
	status, resp = do(t, h, http.MethodGet, "/pools/"+testPool+"/transactions/"+traceID, "", "")
	require.Equal(t, http.StatusOK, status)

	var record core.Transaction
	require.NoError(t, json.Unmarshal(resp["data"], &record))
	assert.Equal(t, page.Transactions[0].ID, record.ID)

	status, _ = do(t, h, http.MethodGet, "/pools/other/transactions/"+traceID, "", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, resp = do(t, h, http.MethodGet, "/pools/"+testPool+"/transactions?from="+decimal.NewFromInt(page.NextFrom).String(), "", "")
	require.Equal(t, http.StatusOK, status)
	page.Transactions, page.NextFrom = nil, 0
	require.NoError(t, json.Unmarshal(resp["data"], &page))
	assert.NotEmpty(t, page.Transactions)
	assert.Zero(t, page.NextFrom)
}
