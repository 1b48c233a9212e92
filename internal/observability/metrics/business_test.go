package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordSourceCrawl(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		method  string
		success bool
	}{
		{name: "rss success", source: "Example Blog", method: "rss", success: true},
		{name: "html failure", source: "Example News", method: "html", success: false},
		{name: "no method", source: "Dead Source", method: "", success: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordSourceCrawl(tt.source, tt.method, tt.success, 150*time.Millisecond)
			})
		})
	}
}

func TestRecordArticlesCollected(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordArticlesCollected("Example Blog", "rss", 5)
		RecordArticlesCollected("Example Blog", "rss", 0)
	})
}

func TestRecordArticleRejected(t *testing.T) {
	for _, reason := range []string{"empty_title", "short_title", "stoplisted_title", "invalid_link"} {
		assert.NotPanics(t, func() {
			RecordArticleRejected("Example Blog", reason)
		})
	}
}

func TestRecordArticleDuplicated(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordArticleDuplicated("Example Blog", "source")
		RecordArticleDuplicated("Example Blog", "run")
	})
}

func TestRecordFetchAttempt(t *testing.T) {
	for _, result := range []string{"success", "transient_error", "permanent_error"} {
		assert.NotPanics(t, func() {
			RecordFetchAttempt(result, 50*time.Millisecond)
		})
	}
}

func TestRecordRateLimitWait(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordRateLimitWait(2 * time.Second)
	})
}

func TestRecordExcerptFetch(t *testing.T) {
	for _, result := range []string{"success", "failure", "skipped"} {
		assert.NotPanics(t, func() {
			RecordExcerptFetch(result)
		})
	}
}
