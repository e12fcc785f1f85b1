package core

import (
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Config lendpool config
type Config struct {
	App         App         `json:"app" valid:"required"`
	DB          db.Config   `json:"db"`
	PriceOracle PriceOracle `json:"price_oracle"`
	Nats        Nats        `json:"nats"`
	Worker      Worker      `json:"worker"`
	Admins      []string    `json:"admins"`
}

// IsAdmin check if the account is a service admin
func (c *Config) IsAdmin(account string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == account {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	// unix seconds of block 0
	Genesis         int64  `json:"genesis" valid:"required"`
	SecondsPerBlock int64  `json:"seconds_per_block" valid:"range(1|86400)"`
	Location        string `json:"location"`
}

// PriceOracle price oracle config
type PriceOracle struct {
	EndPoint  string        `json:"end_point" valid:"url,optional"`
	CacheSize int           `json:"cache_size"`
	CacheTTL  time.Duration `json:"cache_ttl"`
}

// Nats audit record bus
type Nats struct {
	URL           string `json:"url"`
	SubjectPrefix string `json:"subject_prefix"`
}

// Worker worker config
type Worker struct {
	InterestDelay  time.Duration `json:"interest_delay"`
	PriceDelay     time.Duration `json:"price_delay"`
	LiquidityDelay time.Duration `json:"liquidity_delay"`
	Concurrency    int           `json:"concurrency"`
}
