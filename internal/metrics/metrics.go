package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics счётчики Prometheus бота.
type Metrics struct {
	UpdatesProcessed     prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
	ErrorsTotal          prometheus.Counter
	RateLimited          prometheus.Counter

	TasksCreated   prometheus.Counter
	TasksClaimed   prometheus.Counter
	TasksCompleted prometheus.Counter
	ClaimConflicts prometheus.Counter

	SubscriptionsCreated *prometheus.CounterVec
	UsersRegistered      prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith регистрирует метрики в переданном реестре. В тестах это
// позволяет не конфликтовать с глобальным реестром.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UpdatesProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "podryad_bot_updates_processed_total",
			Help: "Total number of processed Telegram updates",
		}),
		UpdateProcessingTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "podryad_bot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),
		ErrorsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "podryad_bot_errors_total",
			Help: "Total number of handler errors and panics",
		}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "podryad_bot_rate_limited_total",
			Help: "Total number of updates dropped by the rate limiter",
		}),
		TasksCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "podryad_tasks_created_total",
			Help: "Total number of tasks created",
		}),
		TasksClaimed: f.NewCounter(prometheus.CounterOpts{
			Name: "podryad_tasks_claimed_total",
			Help: "Total number of tasks claimed by workers",
		}),
		TasksCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "podryad_tasks_completed_total",
			Help: "Total number of tasks completed",
		}),
		ClaimConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "podryad_task_claim_conflicts_total",
			Help: "Total number of lost claim races",
		}),
		SubscriptionsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "podryad_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		}, []string{"tier"}),
		UsersRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "podryad_users_registered_total",
			Help: "Total number of registered users",
		}),
	}
}
