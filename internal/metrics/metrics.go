package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nurpe/travel-docs/internal/model"
)

const namespace = "travel_docs"

const (
	StatusReady  = "ready"
	StatusFailed = "failed"

	AttemptSuccess = "success"
	AttemptRetry   = "retry"
	AttemptFailed  = "failed"
)

type Metrics struct {
	documents *prometheus.CounterVec
	attempts  *prometheus.CounterVec
	pdfBytes  *prometheus.HistogramVec
	pages     *prometheus.HistogramVec
	batches   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_generated_total",
			Help:      "Generated documents by kind and final status.",
		}, []string{"kind", "status"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_generation_attempts_total",
			Help:      "Generation attempts by kind and result.",
		}, []string{"kind", "result"}),
		pdfBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_pdf_bytes",
			Help:      "Size of generated PDFs.",
			Buckets:   prometheus.ExponentialBuckets(64*1024, 2, 9),
		}, []string{"kind"}),
		pages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_pages",
			Help:      "Physical pages per generated PDF.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}, []string{"kind"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_email_batches_total",
			Help:      "Bulk email batches by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.documents, m.attempts, m.pdfBytes, m.pages, m.batches)
	}
	return m
}

func (m *Metrics) ObserveAttempt(kind model.Kind, result string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(string(kind), result).Inc()
}

func (m *Metrics) ObserveDocument(kind model.Kind, status string, pages, bytes int) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(string(kind), status).Inc()
	if status == StatusReady {
		m.pdfBytes.WithLabelValues(string(kind)).Observe(float64(bytes))
		m.pages.WithLabelValues(string(kind)).Observe(float64(pages))
	}
}

func (m *Metrics) ObserveBatch(outcome string) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(outcome).Inc()
}
