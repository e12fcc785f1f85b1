package oracle

import (
	"context"
	"fmt"
	"time"

	"lendpool/core"
	"lendpool/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/pkg/errors"
)

// TickerService pulls price tickers from the price feed endpoint
type TickerService struct {
	EndPoint string
}

// NewTickerService new price ticker service
func NewTickerService(config *core.Config) core.IPriceTickerService {
	return &TickerService{
		EndPoint: config.PriceOracle.EndPoint,
	}
}

// PullPriceTicker pull price ticker
func (s *TickerService) PullPriceTicker(ctx context.Context, assetID string, t time.Time) (*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/v2/tickers/%s?ts=%d", s.EndPoint, assetID, t.UTC().Unix())
	logger.FromContext(ctx).Debugln("pull price:", url)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "pull ticker %s", assetID)
	}

	var ticker core.PriceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	return &ticker, nil
}

// PullAllPriceTickers pull all price tickers
func (s *TickerService) PullAllPriceTickers(ctx context.Context, t time.Time) ([]*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/tickers?ts=%d", s.EndPoint, t.UTC().Unix())
	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, errors.Wrap(err, "pull tickers")
	}

	var tickers []*core.PriceTicker
	if err := resthttp.ParseResponse(resp, &tickers); err != nil {
		return nil, err
	}

	return tickers, nil
}
