package config

import (
	"time"

	"lendpool/core"
)

const (
	defaultSecondsPerBlock = 15
	defaultCacheSize       = 1024
	defaultCacheTTL        = 30 * time.Second
	defaultSubjectPrefix   = "lendpool.ledger"
	defaultWorkerDelay     = 15 * time.Second
	defaultConcurrency     = 8
)

func withDefaults(cfg *core.Config) {
	if cfg.App.SecondsPerBlock <= 0 {
		cfg.App.SecondsPerBlock = defaultSecondsPerBlock
	}

	if cfg.PriceOracle.CacheSize <= 0 {
		cfg.PriceOracle.CacheSize = defaultCacheSize
	}

	if cfg.PriceOracle.CacheTTL <= 0 {
		cfg.PriceOracle.CacheTTL = defaultCacheTTL
	}

	if cfg.Nats.SubjectPrefix == "" {
		cfg.Nats.SubjectPrefix = defaultSubjectPrefix
	}

	for _, d := range []*time.Duration{
		&cfg.Worker.InterestDelay,
		&cfg.Worker.PriceDelay,
		&cfg.Worker.LiquidityDelay,
	} {
		if *d <= 0 {
			*d = defaultWorkerDelay
		}
	}

	if cfg.Worker.Concurrency <= 0 {
		cfg.Worker.Concurrency = defaultConcurrency
	}
}
