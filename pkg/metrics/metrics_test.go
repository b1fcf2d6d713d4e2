package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe(http.MethodPost, "/api/v1/challenges/{challengeId}/complete", http.StatusOK, 120*time.Millisecond)
	m.Observe(http.MethodPost, "/api/v1/challenges/{challengeId}/complete", http.StatusOK, 80*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "200"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected requests=2, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/challenges/{challengeId}/complete"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestChallengeMetricsTransitions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChallengeMetrics(reg)
	m.IncTransition(TransitionJoin)
	m.IncTransition(TransitionJoin)
	m.IncTransition("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "challenge_transitions_total", "transition", TransitionJoin); err != nil || got != 2 {
		t.Fatalf("expected join=2, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "challenge_transitions_total", "transition", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected unknown=1, got %f (%v)", got, err)
	}
}

func TestCoinMetricsSeparatesDuplicates(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCoinMetrics(reg)
	m.ObserveCredit(true, 50)
	m.ObserveCredit(false, 50)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "coin_credits_total", "outcome", CreditOutcomeCreated); err != nil || got != 1 {
		t.Fatalf("expected created=1, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "coin_credits_total", "outcome", CreditOutcomeDuplicate); err != nil || got != 1 {
		t.Fatalf("expected duplicate=1, got %f (%v)", got, err)
	}
	issued := findMetricFamily(mfs, "coins_issued_total")
	if issued == nil || issued.GetMetric()[0].GetCounter().GetValue() != 50 {
		t.Fatalf("expected 50 coins issued")
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var h *HTTPMetrics
	h.Observe(http.MethodGet, "/", 200, time.Millisecond)
	var c *ChallengeMetrics
	c.IncTransition(TransitionCreate)
	var coins *CoinMetrics
	coins.ObserveCredit(true, 1)

	NewCoinMetrics(nil).ObserveCredit(true, 5)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
