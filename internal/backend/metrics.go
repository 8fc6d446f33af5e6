package backend

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokyobox_backend_requests_total",
			Help: "Backend calls by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tokyobox_backend_request_duration_seconds",
			Help:    "Backend call time including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// RegisterMetrics adds the backend collectors to reg. Registering twice with
// the same registry is not an error.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{requestsTotal, requestDuration} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return err
			}
		}
	}
	return nil
}
