package collect_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intelwatch/internal/domain/entity"
	"intelwatch/internal/usecase/collect"
)

func newTestRunner(maxConcurrency int) *collect.Runner {
	return collect.NewRunner(newTestPipeline(10), maxConcurrency, nil)
}

func TestRunner_Execute_MergesSources(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssPayload(
			[2]string{"First source covers the funding round", "https://example.com/posts/funding"},
		)))
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssPayload(
			[2]string{"Second source covers the acquisition", "https://example.com/posts/acquisition"},
		)))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	sources := []entity.SourceConfig{
		{Name: "Source A", Tier: entity.TierPrimary, FeedURL: server.URL + "/a"},
		{Name: "Source B", Tier: entity.TierMarket, FeedURL: server.URL + "/b"},
	}

	articles, run := newTestRunner(2).Execute(context.Background(), sources)

	assert.Len(t, articles, 2)
	require.NotNil(t, run)
	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, 2, run.SourcesAttempted)
	assert.Equal(t, 2, run.SourcesSucceeded)
	assert.Equal(t, 0, run.SourcesFailed)
	assert.Equal(t, 2, run.TotalArticles)
	require.Len(t, run.Sources, 2)
	assert.Equal(t, "Source A", run.Sources[0].Source)
	assert.True(t, run.Sources[0].Success)
}

func TestRunner_Execute_CrossSourceDuplicateGoesToHigherTier(t *testing.T) {
	shared := rssPayload(
		[2]string{"Identical story republished everywhere", "https://example.com/posts/shared"},
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/market", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(shared))
	})
	mux.HandleFunc("/primary", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(shared))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	// The market-tier source is configured first; the primary-tier source
	// must still win the duplicate.
	sources := []entity.SourceConfig{
		{Name: "Market Source", Tier: entity.TierMarket, FeedURL: server.URL + "/market"},
		{Name: "Primary Source", Tier: entity.TierPrimary, FeedURL: server.URL + "/primary"},
	}

	articles, run := newTestRunner(2).Execute(context.Background(), sources)

	require.Len(t, articles, 1)
	assert.Equal(t, "Primary Source", articles[0].Source)

	require.Len(t, run.Sources, 2)
	market, primary := run.Sources[0], run.Sources[1]
	assert.Equal(t, "Market Source", market.Source)
	assert.Equal(t, 0, market.ArticleCount)
	assert.Equal(t, 1, market.Duplicated)
	assert.Equal(t, 1, primary.ArticleCount)
}

func TestRunner_Execute_EqualTierDuplicateGoesToFirstConfigured(t *testing.T) {
	shared := rssPayload(
		[2]string{"Same-tier story seen twice in one run", "https://example.com/posts/tied"},
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/one", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(shared))
	})
	mux.HandleFunc("/two", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(shared))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	sources := []entity.SourceConfig{
		{Name: "First Configured", Tier: entity.TierPrimary, FeedURL: server.URL + "/one"},
		{Name: "Second Configured", Tier: entity.TierPrimary, FeedURL: server.URL + "/two"},
	}

	articles, _ := newTestRunner(2).Execute(context.Background(), sources)

	require.Len(t, articles, 1)
	assert.Equal(t, "First Configured", articles[0].Source)
}

func TestRunner_Execute_FailedSourceDoesNotSinkRun(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dead", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/alive", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssPayload(
			[2]string{"The healthy source still delivers news", "https://example.com/posts/healthy"},
		)))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	sources := []entity.SourceConfig{
		{Name: "Dead", Tier: entity.TierPrimary, FeedURL: server.URL + "/dead"},
		{Name: "Alive", Tier: entity.TierPrimary, FeedURL: server.URL + "/alive"},
	}

	articles, run := newTestRunner(2).Execute(context.Background(), sources)

	assert.Len(t, articles, 1)
	assert.Equal(t, 1, run.SourcesSucceeded)
	assert.Equal(t, 1, run.SourcesFailed)

	dead := run.Sources[0]
	assert.False(t, dead.Success)
	assert.NotEmpty(t, dead.Error)
	assert.Equal(t, collect.CategoryPermanent, dead.ErrorCategory)
}

func TestRunner_Execute_AllSourcesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	sources := []entity.SourceConfig{
		{Name: "Blocked A", Tier: entity.TierPrimary, FeedURL: server.URL + "/a"},
		{Name: "Blocked B", Tier: entity.TierMarket, FeedURL: server.URL + "/b"},
	}

	articles, run := newTestRunner(2).Execute(context.Background(), sources)

	assert.Empty(t, articles)
	assert.Equal(t, 0, run.SourcesSucceeded)
	assert.Equal(t, 2, run.SourcesFailed)
	assert.Equal(t, 0, run.TotalArticles)
}

func TestRunner_Execute_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssPayload(
			[2]string{"Should never be collected this run", "https://example.com/posts/never"},
		)))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sources := []entity.SourceConfig{
		{Name: "Cancelled", Tier: entity.TierPrimary, FeedURL: server.URL},
	}

	articles, run := newTestRunner(1).Execute(ctx, sources)

	assert.Empty(t, articles)
	assert.Equal(t, 1, run.SourcesFailed)
	assert.Equal(t, collect.CategoryCancelled, run.Sources[0].ErrorCategory)
}
