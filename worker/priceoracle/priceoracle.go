package priceoracle

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"lendpool/core"
	"lendpool/internal/compound"
	"lendpool/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Markets listed markets whose assets need a price
type Markets interface {
	AllMarkets(ctx context.Context) ([]*core.Market, error)
}

// Worker stores one price per asset and block from the ticker feed
type Worker struct {
	worker.TickWorker
	db      *db.DB
	markets Markets
	prices  core.IPriceStore
	blocks  core.IBlockService
	tickers core.IPriceTickerService
	oracle  core.IPriceOracle

	genesis         int64
	secondsPerBlock int64
}

// New new price worker
func New(
	cfg *core.Config,
	db *db.DB,
	markets Markets,
	prices core.IPriceStore,
	blocks core.IBlockService,
	tickers core.IPriceTickerService,
	oracle core.IPriceOracle,
) *Worker {
	w := &Worker{
		db:      db,
		markets: markets,
		prices:  prices,
		blocks:  blocks,
		tickers: tickers,
		oracle:  oracle,

		genesis:         cfg.App.Genesis,
		secondsPerBlock: cfg.App.SecondsPerBlock,
	}
	w.Delay = cfg.Worker.PriceDelay

	return w
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, w.onWork)
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	markets, err := w.markets.AllMarkets(ctx)
	if err != nil {
		log.WithError(err).Errorln("list markets")
		return err
	}

	if len(markets) == 0 {
		return nil
	}

	block, err := w.blocks.GetBlock(ctx, time.Now())
	if err != nil {
		log.WithError(err).Errorln("blocks.GetBlock")
		return err
	}

	// every price of a block is quoted at the start of the block
	at := compound.BlockTime(w.secondsPerBlock, w.genesis, block)
	tickers, err := w.tickers.PullAllPriceTickers(ctx, at)
	if err != nil {
		log.WithError(err).Errorln("pull tickers")
		return err
	}

	byAsset := make(map[string][]*core.PriceTicker)
	for _, t := range tickers {
		if t.Price.IsPositive() {
			byAsset[t.AssetID] = append(byAsset[t.AssetID], t)
		}
	}

	seen := make(map[string]bool)
	for _, m := range markets {
		if seen[m.AssetID] {
			continue
		}
		seen[m.AssetID] = true

		quotes, ok := byAsset[m.AssetID]
		if !ok {
			// assets missing from the batch feed are asked for one by one
			ticker, err := w.tickers.PullPriceTicker(ctx, m.AssetID, at)
			if err != nil || !ticker.Price.IsPositive() {
				log.WithError(err).WithField("asset", m.AssetID).Warnln("no ticker")
				continue
			}

			quotes = []*core.PriceTicker{ticker}
		}

		if err := w.savePrice(ctx, m.AssetID, block, quotes); err != nil {
			log.WithError(err).WithField("asset", m.AssetID).Errorln("save price")
			continue
		}

		if err := w.oracle.UpdatePrice(ctx, m.AssetID); err != nil {
			log.WithError(err).WithField("asset", m.AssetID).Errorln("oracle.UpdatePrice")
		}
	}

	return nil
}

func (w *Worker) savePrice(ctx context.Context, assetID string, block int64, quotes []*core.PriceTicker) error {
	if _, found, err := w.prices.FindByAssetBlock(ctx, assetID, block); err != nil || found {
		return err
	}

	content, err := json.Marshal(quotes)
	if err != nil {
		return err
	}

	price := &core.Price{
		AssetID:     assetID,
		BlockNumber: block,
		Price:       median(quotes),
		Content:     content,
	}

	return w.db.Tx(func(tx *db.DB) error {
		return w.prices.Create(ctx, tx, price)
	})
}

// median of the quoted prices, the mean of the two middle ones for an even count
func median(quotes []*core.PriceTicker) decimal.Decimal {
	prices := make([]decimal.Decimal, 0, len(quotes))
	for _, q := range quotes {
		prices = append(prices, q.Price)
	}

	sort.Slice(prices, func(i, j int) bool {
		return prices[i].LessThan(prices[j])
	})

	mid := len(prices) / 2
	if len(prices)%2 == 1 {
		return prices[mid]
	}

	return prices[mid-1].Add(prices[mid]).Div(decimal.NewFromInt(2))
}
