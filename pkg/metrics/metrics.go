package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Scheduling metrics
	BookingsCreated     prometheus.Counter
	BookingsRescheduled prometheus.Counter
	BookingsCancelled   prometheus.Counter
	BookingsRejected    *prometheus.CounterVec
	ConflictCheckTime   prometheus.Histogram

	// Outbox relay metrics
	OutboxEventsProcessed prometheus.Counter
	OutboxEventsFailed    prometheus.Counter
	OutboxProcessingTime  prometheus.Histogram

	// Notification metrics
	NotificationsSent   *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Total number of appointments booked",
		}),
		BookingsRescheduled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_rescheduled_total",
			Help:      "Total number of appointments rescheduled",
		}),
		BookingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "Total number of appointments cancelled",
		}),
		BookingsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_rejected_total",
			Help:      "Total number of booking requests rejected, by reason",
		}, []string{"reason"}),
		ConflictCheckTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conflict_check_duration_seconds",
			Help:      "Time spent running the slot conflict check",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully relayed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of outbox events that failed to relay",
		}),
		OutboxProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent relaying outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		NotificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Total number of notifications sent, by event",
		}, []string{"event"}),
		NotificationsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_failed_total",
			Help:      "Total number of notifications that failed to send, by event",
		}, []string{"event"}),
	}
}

// NewTestMetrics returns metrics backed by a private registry so tests do
// not collide on the default registerer.
func NewTestMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		BookingsCreated:       factory.NewCounter(prometheus.CounterOpts{Name: "bookings_created_total"}),
		BookingsRescheduled:   factory.NewCounter(prometheus.CounterOpts{Name: "bookings_rescheduled_total"}),
		BookingsCancelled:     factory.NewCounter(prometheus.CounterOpts{Name: "bookings_cancelled_total"}),
		BookingsRejected:      factory.NewCounterVec(prometheus.CounterOpts{Name: "bookings_rejected_total"}, []string{"reason"}),
		ConflictCheckTime:     factory.NewHistogram(prometheus.HistogramOpts{Name: "conflict_check_duration_seconds"}),
		OutboxEventsProcessed: factory.NewCounter(prometheus.CounterOpts{Name: "outbox_events_processed_total"}),
		OutboxEventsFailed:    factory.NewCounter(prometheus.CounterOpts{Name: "outbox_events_failed_total"}),
		OutboxProcessingTime:  factory.NewHistogram(prometheus.HistogramOpts{Name: "outbox_processing_duration_seconds"}),
		NotificationsSent:     factory.NewCounterVec(prometheus.CounterOpts{Name: "notifications_sent_total"}, []string{"event"}),
		NotificationsFailed:   factory.NewCounterVec(prometheus.CounterOpts{Name: "notifications_failed_total"}, []string{"event"}),
	}
}
