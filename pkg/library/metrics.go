package library

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fanoutSubRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_fanout_subrequests_total",
		Help: "Total fan-out sub-queries by resource",
	}, []string{"resource"})

	fanoutDuplicatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_fanout_duplicates_total",
		Help: "Total duplicate records dropped while merging fan-out results",
	}, []string{"resource"})

	fanoutTruncationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_fanout_truncations_total",
		Help: "Total fan-out sub-queries stopped at the page limit",
	}, []string{"resource"})
)
