package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidationsTotal counts validation attempts by outcome ("valid" or a rejection reason)
	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promotion_validations_total",
			Help: "Number of promotion code validations by outcome",
		},
		[]string{"outcome"},
	)

	// ValidationDuration tracks how long a validation takes end to end
	ValidationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "promotion_validation_duration_seconds",
			Help: "Duration of promotion code validations in seconds",
			Buckets: []float64{
				0.0001, // 100µs
				0.0005, // 500µs
				0.001,  // 1ms
				0.005,  // 5ms
				0.01,   // 10ms
				0.05,   // 50ms
				0.1,    // 100ms
				0.5,    // 500ms
			},
		},
	)

	// ListingsTotal counts promotion listing requests
	ListingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "promotion_listings_total",
			Help: "Number of promotion listing requests served",
		},
	)
)

// Recorder records promotion metrics. The zero value writes to the package collectors.
type Recorder struct{}

// RecordValidation records the outcome and duration of a validation.
func (Recorder) RecordValidation(outcome string, seconds float64) {
	ValidationsTotal.WithLabelValues(outcome).Inc()
	ValidationDuration.Observe(seconds)
}

// RecordListing records a served listing.
func (Recorder) RecordListing() {
	ListingsTotal.Inc()
}
