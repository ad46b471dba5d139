package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("org_id", "123"),
		attribute.String("customer_id", "456"),
		attribute.String("invoice_number", "FAC-BJ-2025-000001"),
		attribute.String("adapter", "BJ_GENERIC"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("org_id"), attrs[0].Key)
	assert.Equal(t, attribute.Key("adapter"), attrs[1].Key)
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordTenantResolution(context.Background(), "header", OutcomeResolved)
		m.RecordInvoiceSend(context.Background(), "1", OutcomeSent)
	})
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "test"}, noop.NewMeterProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordInvoiceValidation(context.Background(), "UEMOA_OHADA_GENERIC", OutcomeInvalid)
	})
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg)
	require.NoError(t, err)

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/health", "200")))

	_, err = NewHTTPMetrics(reg)
	assert.Error(t, err)
}
