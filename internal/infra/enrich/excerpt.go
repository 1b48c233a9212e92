// Package enrich fetches article pages to fill in missing summaries.
// It extracts readable text with the go-readability library and is always
// best-effort: enrichment failures never fail an article.
package enrich

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"intelwatch/internal/infra/httpx"
	"intelwatch/internal/observability/metrics"

	readability "github.com/go-shiori/go-readability"
)

// defaultMaxChars matches the summary cap used elsewhere in the pipeline.
const defaultMaxChars = 300

// ExcerptFetcher fetches an article page through the shared fetch client
// (so enrichment respects the same identity rotation and host rate limits
// as the main pipeline) and extracts a short readable excerpt.
type ExcerptFetcher struct {
	client   *httpx.Client
	maxChars int
}

// NewExcerptFetcher creates an ExcerptFetcher over the given fetch client.
// maxChars <= 0 selects the default excerpt cap.
func NewExcerptFetcher(client *httpx.Client, maxChars int) *ExcerptFetcher {
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	return &ExcerptFetcher{client: client, maxChars: maxChars}
}

// Excerpt fetches the page at rawURL and returns a cleaned, truncated
// excerpt of its main content.
func (f *ExcerptFetcher) Excerpt(ctx context.Context, rawURL string) (string, error) {
	res, err := f.client.GetPage(ctx, rawURL)
	if err != nil {
		metrics.RecordExcerptFetch("failure")
		return "", fmt.Errorf("fetch article page: %w", err)
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		pageURL = nil // readability can work without a URL
	}

	article, err := readability.FromReader(bytes.NewReader(res.Body), pageURL)
	if err != nil {
		metrics.RecordExcerptFetch("failure")
		return "", fmt.Errorf("extract readable content: %w", err)
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	if text == "" {
		metrics.RecordExcerptFetch("failure")
		return "", fmt.Errorf("no readable content at %s", rawURL)
	}

	metrics.RecordExcerptFetch("success")

	runes := []rune(text)
	if len(runes) > f.maxChars {
		return string(runes[:f.maxChars]), nil
	}
	return text, nil
}
