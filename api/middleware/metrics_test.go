package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type recordedObservation struct {
	method string
	route  string
	status int
}

type fakeObserver struct {
	seen []recordedObservation
}

func (f *fakeObserver) Observe(method, route string, status int, elapsed time.Duration) {
	f.seen = append(f.seen, recordedObservation{method: method, route: route, status: status})
}

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	observer := &fakeObserver{}
	r := chi.NewRouter()
	r.Use(Metrics(observer))
	r.Post("/api/v1/challenges/{challengeId}/join", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/challenges/123/join", nil))

	if len(observer.seen) != 1 {
		t.Fatalf("expected one observation, got %d", len(observer.seen))
	}
	got := observer.seen[0]
	if got.route != "/api/v1/challenges/{challengeId}/join" || got.status != http.StatusTeapot || got.method != http.MethodPost {
		t.Fatalf("unexpected observation %+v", got)
	}
}
