package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer prometheus.Registerer = registry

var (
	tenantLabels = []string{"tenant_id"}

	// Pipeline latency buckets in milliseconds; extraction and
	// classification are CPU-bound and fast, encryption adds little.
	latencyBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}

	DocumentsProcessedTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "formvault_documents_processed_total",
			Help: "Total number of documents run through the pipeline",
		},
		append(tenantLabels, "document_type"),
	)

	ClassificationsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "formvault_classifications_total",
			Help: "Field classification outcomes by class and firing rule",
		},
		[]string{"class", "reason"},
	)

	CryptoOperationsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "formvault_crypto_operations_total",
			Help: "Encrypt/decrypt/blind-index operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	PipelineLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "formvault_pipeline_latency_ms",
			Help:    "Ingest pipeline latency in milliseconds",
			Buckets: latencyBuckets,
		},
		tenantLabels,
	)

	MigrationRecordsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "formvault_migration_records_total",
			Help: "Legacy records swept by the migration worker, by outcome",
		},
		append(tenantLabels, "outcome"),
	)
)

func init() {
	registerer.MustRegister(collectors.NewGoCollector())
}

// Handler serves the metrics registry over HTTP.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
