package avif

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	liveDesc = prometheus.NewDesc(
		"avif_sessions_live",
		"Decode sessions created and not yet closed.",
		nil, nil,
	)
	openedDesc = prometheus.NewDesc(
		"avif_sessions_opened_total",
		"Decode sessions created.",
		nil, nil,
	)
	failuresDesc = prometheus.NewDesc(
		"avif_failures_total",
		"Failed operations by error kind.",
		[]string{"kind"}, nil,
	)
)

type collector struct{}

// NewCollector returns a prometheus.Collector exporting the package's session and failure counters.
// The counters are process wide, so register at most one collector per registry.
func NewCollector() prometheus.Collector {
	return collector{}
}

func (collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- liveDesc
	ch <- openedDesc
	ch <- failuresDesc
}

func (collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(liveDesc, prometheus.GaugeValue, float64(LiveSessions()))
	ch <- prometheus.MustNewConstMetric(openedDesc, prometheus.CounterValue, float64(stats.opened.Load()))
	for kind, n := range stats.failureSnapshot() {
		ch <- prometheus.MustNewConstMetric(failuresDesc, prometheus.CounterValue, float64(n), kind)
	}
}
