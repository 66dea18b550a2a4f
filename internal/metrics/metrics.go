// Package metrics declares the prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newspie_upstream_requests_total",
		Help: "Upstream API calls by endpoint and result.",
	}, []string{"endpoint", "result"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newspie_upstream_duration_seconds",
		Help:    "Latency of upstream API calls that reached the network.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newspie_cache_lookups_total",
		Help: "Response cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	PageOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newspie_page_outcomes_total",
		Help: "Resolved page requests by route and outcome.",
	}, []string{"route", "outcome"})

	ArticlesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newspie_articles_skipped_total",
		Help: "Articles dropped because their timestamp could not be parsed.",
	})
)
