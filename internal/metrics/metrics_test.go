package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/nurpe/travel-docs/internal/model"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveAttempt(model.KindInvoice, AttemptRetry)
	m.ObserveAttempt(model.KindInvoice, AttemptSuccess)
	m.ObserveDocument(model.KindInvoice, StatusReady, 2, 120_000)
	m.ObserveDocument(model.KindVoucher, StatusFailed, 0, 0)
	m.ObserveBatch("PARTIAL")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("INVOICE", AttemptRetry)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documents.WithLabelValues("INVOICE", StatusReady)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documents.WithLabelValues("VOUCHER", StatusFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.batches.WithLabelValues("PARTIAL")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.pages))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAttempt(model.KindInvoice, AttemptFailed)
		m.ObserveDocument(model.KindInvoice, StatusReady, 1, 1)
		m.ObserveBatch("FAILED")
	})
}
