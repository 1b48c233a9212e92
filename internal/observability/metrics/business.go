package metrics

import (
	"time"
)

// RecordSourceCrawl records the outcome of one source crawl.
// Method is the fetch method that actually produced the result ("rss",
// "html", or "" when no method was usable).
func RecordSourceCrawl(source, method string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	if method == "" {
		method = "none"
	}
	SourceCrawlsTotal.WithLabelValues(source, method, status).Inc()
	SourceCrawlDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordArticlesCollected records articles that made it through the pipeline.
func RecordArticlesCollected(source, method string, count int) {
	if count == 0 {
		return
	}
	ArticlesCollectedTotal.WithLabelValues(source, method).Add(float64(count))
}

// RecordArticleRejected records a single validation rejection.
func RecordArticleRejected(source, reason string) {
	ArticlesRejectedTotal.WithLabelValues(source, reason).Inc()
}

// RecordArticleDuplicated records a single dropped duplicate.
// Scope is "source" for intra-source repeats and "run" for cross-source ones.
func RecordArticleDuplicated(source, scope string) {
	ArticlesDuplicatedTotal.WithLabelValues(source, scope).Inc()
}

// RecordFetchAttempt records one outbound HTTP attempt.
func RecordFetchAttempt(result string, duration time.Duration) {
	FetchAttemptsTotal.WithLabelValues(result).Inc()
	FetchDuration.Observe(duration.Seconds())
}

// RecordRateLimitWait records time spent blocked on the host limiter.
func RecordRateLimitWait(duration time.Duration) {
	RateLimitWaitDuration.Observe(duration.Seconds())
}

// RecordExcerptFetch records the result of an excerpt enrichment attempt.
// Result should be "success", "failure", or "skipped".
func RecordExcerptFetch(result string) {
	ExcerptFetchAttemptsTotal.WithLabelValues(result).Inc()
}
