// Package metrics provides centralized Prometheus metrics for the collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collection metrics track per-source and per-run crawl outcomes.
var (
	// SourceCrawlsTotal counts source crawls by method actually used and status.
	SourceCrawlsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_crawls_total",
			Help: "Total number of source crawls",
		},
		[]string{"source", "method", "status"},
	)

	// SourceCrawlDuration measures time to crawl one source.
	SourceCrawlDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_crawl_duration_seconds",
			Help:    "Time taken to crawl a source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)

	// ArticlesCollectedTotal counts articles that survived validation and dedup.
	ArticlesCollectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_collected_total",
			Help: "Total number of articles collected from sources",
		},
		[]string{"source", "method"},
	)

	// ArticlesRejectedTotal counts validation rejections by reason.
	ArticlesRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_rejected_total",
			Help: "Total number of articles rejected by validation",
		},
		[]string{"source", "reason"},
	)

	// ArticlesDuplicatedTotal counts dropped duplicates.
	// Scope is "source" for repeats within one source and "run" for
	// cross-source repeats caught by the run-wide pass.
	ArticlesDuplicatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_duplicated_total",
			Help: "Total number of duplicate articles dropped",
		},
		[]string{"source", "scope"},
	)
)

// Fetch metrics track the outbound HTTP path.
var (
	// FetchAttemptsTotal counts individual HTTP fetch attempts by result.
	FetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_attempts_total",
			Help: "Total number of outbound fetch attempts",
		},
		[]string{"result"}, // result: success, transient_error, permanent_error
	)

	// FetchDuration measures individual fetch attempt duration.
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fetch_duration_seconds",
			Help:    "Outbound fetch attempt duration in seconds",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8, 25.6},
		},
	)

	// RateLimitWaitDuration measures time spent waiting on the host limiter.
	RateLimitWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rate_limit_wait_duration_seconds",
			Help:    "Time spent waiting for a rate limiter slot",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	// ExcerptFetchAttemptsTotal counts excerpt enrichment fetches by result.
	ExcerptFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "excerpt_fetch_attempts_total",
			Help: "Total number of excerpt enrichment fetch attempts",
		},
		[]string{"result"}, // result: success, failure, skipped
	)
)
