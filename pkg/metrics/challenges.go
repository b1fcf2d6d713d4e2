package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	TransitionCreate   = "create"
	TransitionJoin     = "join"
	TransitionForfeit  = "forfeit"
	TransitionComplete = "complete"
)

// ChallengeMetrics counts committed challenge lifecycle transitions.
type ChallengeMetrics struct {
	transitions *prometheus.CounterVec
}

func NewChallengeMetrics(reg prometheus.Registerer) *ChallengeMetrics {
	if reg == nil {
		return &ChallengeMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "challenge_transitions_total",
		Help: "Committed challenge transitions by kind.",
	}, []string{"transition"})
	reg.MustRegister(transitions)
	return &ChallengeMetrics{transitions: transitions}
}

// IncTransition increments the counter for the named transition.
func (c *ChallengeMetrics) IncTransition(transition string) {
	if c == nil || c.transitions == nil {
		return
	}
	c.transitions.WithLabelValues(normalizeLabel(transition)).Inc()
}
