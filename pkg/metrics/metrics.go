package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lendpool"

// Metrics prometheus collectors of the ledger
type Metrics struct {
	Actions        *prometheus.CounterVec
	Liquidations   *prometheus.CounterVec
	BadDebt        *prometheus.GaugeVec
	Reserves       *prometheus.GaugeVec
	SolvencyStates *prometheus.GaugeVec
	RewardHooks    *prometheus.CounterVec
	CommitDuration prometheus.Histogram
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Ledger operations by pool, action and result class.",
		}, []string{"pool", "action", "result"}),
		Liquidations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "liquidations_total",
			Help:      "Committed liquidations by kind.",
		}, []string{"pool", "kind"}),
		BadDebt: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bad_debt",
			Help:      "Recorded bad debt per market in underlying units.",
		}, []string{"pool", "market"}),
		Reserves: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reserves",
			Help:      "Total reserves per market in underlying units.",
		}, []string{"pool", "market"}),
		SolvencyStates: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accounts",
			Help:      "Borrowing accounts by solvency state.",
		}, []string{"pool", "state"}),
		RewardHooks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reward_hooks_total",
			Help:      "Rewards distributor notifications by side.",
		}, []string{"pool", "market", "side"}),
		CommitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "commit_duration_seconds",
			Help:      "Time spent persisting a changeset.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Nop collectors registered nowhere
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
