package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFail    = "fail"
)

// Registry holds the CLI's collectors. It is separate from the default
// registry so the textfile carries only streamcat series.
var Registry = prometheus.NewRegistry()

var (
	operationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streamcat_operations_total",
		Help: "Total number of catalog operations by outcome",
	}, []string{"operation", "outcome"})

	operationDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "streamcat_operation_duration_seconds",
		Help:    "Duration of catalog operations in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	seedRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streamcat_seed_rows_total",
		Help: "Total number of rows read from seed files",
	}, []string{"table"})
)

func init() {
	Registry.MustRegister(operationsTotal)
	Registry.MustRegister(operationDurationSeconds)
	Registry.MustRegister(seedRowsTotal)
}

// RecordOperation records one finished operation
func RecordOperation(operation string, err error, duration time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFail
	}
	operationsTotal.WithLabelValues(operation, outcome).Inc()
	operationDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSeedRows adds n rows read for table
func RecordSeedRows(table string, n int) {
	seedRowsTotal.WithLabelValues(table).Add(float64(n))
}

// WriteTextfile writes every metric in the node_exporter textfile format.
// An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
