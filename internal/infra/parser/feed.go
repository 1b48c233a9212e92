package parser

import (
	"bytes"
	"strings"

	"intelwatch/internal/domain/entity"

	"github.com/mmcdole/gofeed"
)

// maxSummaryChars caps summaries carried on an article.
const maxSummaryChars = 300

// FeedParser parses RSS/Atom payloads into candidate articles using the
// gofeed library. It is stateless and safe for concurrent use.
type FeedParser struct{}

// NewFeedParser creates a FeedParser.
func NewFeedParser() *FeedParser {
	return &FeedParser{}
}

// Parse parses an RSS/Atom payload into candidate articles for the source.
// Publish dates are best-effort: an item with an unparseable date keeps a
// zero timestamp instead of failing the parse. Malformed XML yields a nil
// slice and a *ParseError, not a fatal failure.
func (p *FeedParser) Parse(payload []byte, src entity.SourceConfig) ([]entity.Article, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(payload))
	if err != nil {
		return nil, &ParseError{Source: src.Name, Method: entity.MethodRSS, Err: err}
	}

	articles := make([]entity.Article, 0, len(feed.Items))
	for _, it := range feed.Items {
		art := entity.Article{
			Source:  src.Name,
			Tier:    src.Tier,
			Title:   strings.TrimSpace(it.Title),
			URL:     strings.TrimSpace(it.Link),
			Summary: truncateSummary(summaryOf(it)),
			Method:  entity.MethodRSS,
		}

		// gofeed already tries the common date formats; anything it could
		// not parse stays a zero timestamp.
		if it.PublishedParsed != nil {
			art.PublishedAt = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			art.PublishedAt = *it.UpdatedParsed
		}

		articles = append(articles, art)
	}

	return articles, nil
}

// summaryOf picks the item's summary text, preferring the short description
// over full content.
func summaryOf(it *gofeed.Item) string {
	if it.Description != "" {
		return it.Description
	}
	return it.Content
}

// truncateSummary collapses whitespace and caps the summary length in runes.
func truncateSummary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxSummaryChars {
		return s
	}
	return string(runes[:maxSummaryChars])
}
