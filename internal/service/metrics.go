package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dependentWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pinstack_dependent_write_failures_total",
			Help: "Dependent halves of paired mutations that failed and were left for repair",
		},
		[]string{"op"},
	)

	danglingRefsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pinstack_dangling_refs_detected_total",
			Help: "Denormalized list entries found pointing at missing records",
		},
		[]string{"list"},
	)

	danglingRefsRepaired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pinstack_dangling_refs_repaired_total",
			Help: "Dangling denormalized list entries detached",
		},
		[]string{"list"},
	)

	listDriftRepaired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pinstack_list_drift_repaired_total",
			Help: "Denormalized list entries reconciled against their authoritative side",
		},
		[]string{"list", "op"},
	)
)
