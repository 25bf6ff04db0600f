package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	moderationSubsystem = "moderation"

	actionsTotal         = "actions_total"
	conflictsTotal       = "transition_conflicts_total"
	sideEffectsTotal     = "side_effects_total"
	reportsRateLimited   = "reports_rate_limited_total"
	cascadeJobsSuspended = "cascade_jobs_suspended_total"

	// Labels
	actionLabel  = "action"
	entityLabel  = "entity"
	kindLabel    = "kind"
	outcomeLabel = "outcome"
)

/**
* Metrics definition
**/
var actionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: moderationSubsystem,
		Name:      actionsTotal,
		Help:      "number of accepted moderation actions by action type",
	},
	[]string{actionLabel},
)

var conflictsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: moderationSubsystem,
		Name:      conflictsTotal,
		Help:      "number of transitions lost to a concurrent writer",
	},
	[]string{entityLabel},
)

var sideEffectsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: moderationSubsystem,
		Name:      sideEffectsTotal,
		Help:      "number of post-commit side effects by kind and outcome",
	},
	[]string{kindLabel, outcomeLabel},
)

var reportsRateLimitedMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: moderationSubsystem,
		Name:      reportsRateLimited,
		Help:      "number of report submissions refused by the rate limiter",
	},
)

var cascadeJobsSuspendedMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: moderationSubsystem,
		Name:      cascadeJobsSuspended,
		Help:      "number of jobs suspended by company disable cascades",
	},
)

func IncreaseActionsTotalMetric(action string) {
	actionsTotalMetric.With(prometheus.Labels{actionLabel: action}).Inc()
}

func IncreaseConflictsTotalMetric(entity string) {
	conflictsTotalMetric.With(prometheus.Labels{entityLabel: entity}).Inc()
}

func IncreaseSideEffectsTotalMetric(kind, outcome string) {
	sideEffectsTotalMetric.With(prometheus.Labels{kindLabel: kind, outcomeLabel: outcome}).Inc()
}

func IncreaseReportsRateLimitedMetric() {
	reportsRateLimitedMetric.Inc()
}

func AddCascadeJobsSuspendedMetric(count int) {
	cascadeJobsSuspendedMetric.Add(float64(count))
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(actionsTotalMetric)
	prometheus.MustRegister(conflictsTotalMetric)
	prometheus.MustRegister(sideEffectsTotalMetric)
	prometheus.MustRegister(reportsRateLimitedMetric)
	prometheus.MustRegister(cascadeJobsSuspendedMetric)
}
