// Package metrics holds the process-wide Prometheus counters, exposed by the
// status server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trendbot_fetch_cycles_total",
		Help: "Discovery fetches that returned a batch.",
	})
	FetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trendbot_fetch_errors_total",
		Help: "Discovery fetches that failed.",
	})
	Posted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendbot_posted_total",
		Help: "Announcements posted, per destination.",
	}, []string{"destination"})
	PublishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendbot_publish_errors_total",
		Help: "Publish attempts that failed, per destination.",
	}, []string{"destination"})
	Skipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendbot_skipped_total",
		Help: "Repos skipped before publishing, per reason.",
	}, []string{"reason"})
)
