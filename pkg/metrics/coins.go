package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	CreditOutcomeCreated   = "created"
	CreditOutcomeDuplicate = "duplicate"
)

// CoinMetrics tracks ledger credits. Duplicates are idempotent replays that
// did not insert a row.
type CoinMetrics struct {
	credits *prometheus.CounterVec
	issued  prometheus.Counter
}

func NewCoinMetrics(reg prometheus.Registerer) *CoinMetrics {
	if reg == nil {
		return &CoinMetrics{}
	}
	credits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coin_credits_total",
		Help: "Coin credit attempts by outcome.",
	}, []string{"outcome"})
	issued := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coins_issued_total",
		Help: "Sum of coins credited to users.",
	})
	reg.MustRegister(credits, issued)
	return &CoinMetrics{credits: credits, issued: issued}
}

// ObserveCredit records the outcome of one credit; amount counts only when created.
func (c *CoinMetrics) ObserveCredit(created bool, amount int) {
	if c == nil || c.credits == nil {
		return
	}
	if !created {
		c.credits.WithLabelValues(CreditOutcomeDuplicate).Inc()
		return
	}
	c.credits.WithLabelValues(CreditOutcomeCreated).Inc()
	if amount > 0 {
		c.issued.Add(float64(amount))
	}
}
