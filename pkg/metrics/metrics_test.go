package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidashi/backoffice-api/pkg/metrics"
)

func TestMiddleware_RecordsRouteTemplate(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/ORDER-0001", nil))
	m.ObserveOutbox("order_created", "completed")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/api/orders/{id}",status_code="404"} 1`)
	assert.Contains(t, string(body), `outbox_messages_processed_total{event_type="order_created",result="completed"} 1`)
	assert.NotContains(t, string(body), "ORDER-0001")
}

func TestObserveOutbox_NilSafe(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	assert.NotPanics(t, func() { m.ObserveOutbox("x", "y") })
}
