package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certifire_deliveries_total",
			Help: "Total number of remote delivery operations",
		},
		[]string{"operation", "result"},
	)

	DeliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "certifire_delivery_duration_seconds",
			Help:    "Remote delivery duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	MonitoringPointsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certifire_monitoring_writes_total",
			Help: "Total number of monitoring batches written to the time-series database",
		},
		[]string{"result"},
	)
)

// ObserveDelivery records the outcome of one delivery operation.
func ObserveDelivery(operation string, started time.Time, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}

	DeliveriesTotal.WithLabelValues(operation, result).Inc()
	DeliveryDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func ObserveMonitoringWrite(err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}

	MonitoringPointsTotal.WithLabelValues(result).Inc()
}
