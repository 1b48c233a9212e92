package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intelwatch/internal/config"
	"intelwatch/internal/domain/entity"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
user_agents:
  - "agent-one"
  - "agent-two"
scraping:
  min_delay: 3s
  max_jitter: 500ms
  timeout: 20s
  max_attempts: 4
  max_concurrency: 8
  max_articles_per_source: 15
validation:
  min_title_length: 12
  stoplist:
    - "cookie policy"
enrich_summaries: true
output:
  reports_dir: out/reports
  data_dir: out/data
sources:
  - name: Example Blog
    tier: 1
    feed_url: https://example.com/feed.xml
  - name: Example News
    page_url: https://news.example.com/latest
    selectors:
      article: "div.post"
      title: "h2"
      link: "a"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"agent-one", "agent-two"}, cfg.UserAgents)
	assert.Equal(t, 3*time.Second, cfg.Scraping.MinDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Scraping.MaxJitter)
	assert.Equal(t, 4, cfg.Scraping.MaxAttempts)
	assert.Equal(t, 8, cfg.Scraping.MaxConcurrency)
	assert.Equal(t, 15, cfg.Scraping.MaxArticlesPerSource)
	assert.Equal(t, 12, cfg.Validation.MinTitleLength)
	assert.True(t, cfg.EnrichSummaries)
	assert.Equal(t, "out/reports", cfg.Output.ReportsDir)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, entity.TierPrimary, cfg.Sources[0].Tier)
	// Unspecified tier defaults to the market tier.
	assert.Equal(t, entity.TierMarket, cfg.Sources[1].Tier)
}

func TestLoad_DefaultsApply(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: Minimal
    feed_url: https://example.com/feed.xml
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	def := config.Default()
	assert.Equal(t, def.Scraping.MinDelay, cfg.Scraping.MinDelay)
	assert.Equal(t, def.Scraping.MaxAttempts, cfg.Scraping.MaxAttempts)
	assert.Equal(t, def.Scraping.MaxArticlesPerSource, cfg.Scraping.MaxArticlesPerSource)
	assert.Equal(t, def.Output.ReportsDir, cfg.Output.ReportsDir)
	assert.False(t, cfg.EnrichSummaries)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "sources: [unclosed")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidConfigs(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no sources", `
scraping:
  min_delay: 1s
`},
		{"duplicate source names", `
sources:
  - name: Twice
    feed_url: https://example.com/a.xml
  - name: Twice
    feed_url: https://example.com/b.xml
`},
		{"source without urls", `
sources:
  - name: Nothing Configured
`},
		{"page without selectors", `
sources:
  - name: No Selectors
    page_url: https://example.com/news
`},
		{"negative delay", `
scraping:
  min_delay: -2s
sources:
  - name: OK
    feed_url: https://example.com/feed.xml
`},
		{"zero attempts", `
scraping:
  max_attempts: 0
sources:
  - name: OK
    feed_url: https://example.com/feed.xml
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
