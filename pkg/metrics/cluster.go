package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// initClusterMetrics registers the node/pod/scheduler/autoscale metrics for
// the controller's simulation loops.
func (m *Manager) initClusterMetrics(cfg Config) {
	m.nodesByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "clustersim",
			Subsystem: "cluster",
			Name:      "nodes",
			Help:      "Current number of nodes by status.",
		},
		[]string{"status"},
	)

	m.podsScheduled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clustersim",
			Subsystem: "scheduler",
			Name:      "pods_scheduled_total",
			Help:      "Total number of pods placed, labeled by placement algorithm and outcome.",
		},
		[]string{"algorithm", "outcome"},
	)

	buckets := cfg.SchedulerDurationBuckets
	if len(buckets) == 0 {
		buckets = DefaultConfig().SchedulerDurationBuckets
	}
	m.schedulerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clustersim",
			Subsystem: "scheduler",
			Name:      "placement_duration_seconds",
			Help:      "Time taken to evaluate a pod placement decision.",
			Buckets:   buckets,
		},
		[]string{"algorithm"},
	)

	m.noCapacityTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clustersim",
			Subsystem: "scheduler",
			Name:      "no_capacity_total",
			Help:      "Total number of pod launch attempts that found no eligible node.",
		},
	)

	m.nodeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clustersim",
			Subsystem: "health",
			Name:      "node_failures_total",
			Help:      "Total number of nodes marked failed by the health monitor due to stale heartbeats.",
		},
	)

	m.podsRescheduled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clustersim",
			Subsystem: "health",
			Name:      "pods_rescheduled_total",
			Help:      "Total number of pods rescheduled after their node failed, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	m.autoScaleEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clustersim",
			Subsystem: "autoscale",
			Name:      "events_total",
			Help:      "Total number of auto-scale node additions, labeled by trigger.",
		},
		[]string{"trigger"},
	)

	m.clusterUtilization = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "clustersim",
			Subsystem: "cluster",
			Name:      "utilization_ratio",
			Help:      "Most recent cluster-wide CPU utilization ratio sample.",
		},
	)

	m.registry.MustRegister(
		m.nodesByStatus,
		m.podsScheduled,
		m.schedulerDuration,
		m.noCapacityTotal,
		m.nodeFailures,
		m.podsRescheduled,
		m.autoScaleEvents,
		m.clusterUtilization,
	)
}

// SetNodeCount records the current node count for a given status.
func (m *Manager) SetNodeCount(status string, count float64) {
	if !m.enabled {
		return
	}
	m.nodesByStatus.WithLabelValues(status).Set(count)
}

// RecordPodScheduled records a pod placement attempt outcome.
func (m *Manager) RecordPodScheduled(algorithm, outcome string) {
	if !m.enabled {
		return
	}
	m.podsScheduled.WithLabelValues(algorithm, outcome).Inc()
}

// ObserveSchedulerDuration records how long a placement decision took.
func (m *Manager) ObserveSchedulerDuration(algorithm string, seconds float64) {
	if !m.enabled {
		return
	}
	m.schedulerDuration.WithLabelValues(algorithm).Observe(seconds)
}

// RecordNoCapacity increments the no-eligible-node counter.
func (m *Manager) RecordNoCapacity() {
	if !m.enabled {
		return
	}
	m.noCapacityTotal.Inc()
}

// RecordNodeFailure increments the node-failure counter.
func (m *Manager) RecordNodeFailure() {
	if !m.enabled {
		return
	}
	m.nodeFailures.Inc()
}

// RecordPodRescheduled records a post-failure reschedule attempt outcome.
func (m *Manager) RecordPodRescheduled(outcome string) {
	if !m.enabled {
		return
	}
	m.podsRescheduled.WithLabelValues(outcome).Inc()
}

// RecordAutoScaleEvent increments the autoscale-event counter for a trigger
// (the controller passes "periodic" or "replacement").
func (m *Manager) RecordAutoScaleEvent(trigger string) {
	if !m.enabled {
		return
	}
	m.autoScaleEvents.WithLabelValues(trigger).Inc()
}

// SetClusterUtilization records the most recent utilization sample.
func (m *Manager) SetClusterUtilization(ratio float64) {
	if !m.enabled {
		return
	}
	m.clusterUtilization.Set(ratio)
}
