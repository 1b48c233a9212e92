// Package entity defines the core domain entities and validation logic for the
// collector. It contains the fundamental business objects such as Article and
// SourceConfig, along with their validation rules and domain-specific errors.
package entity

import "time"

// FetchMethod identifies how a source's articles were obtained.
type FetchMethod string

const (
	// MethodRSS means the articles came from the source's RSS/Atom feed.
	MethodRSS FetchMethod = "rss"

	// MethodHTML means the articles were scraped from the source's page
	// using the configured CSS selectors.
	MethodHTML FetchMethod = "html"

	// MethodNone means no method produced articles for the source.
	MethodNone FetchMethod = ""
)

// Article represents a single collected article.
// It is created by the feed or HTML parsers and is not mutated after
// validation; the fingerprint is assigned during deduplication.
type Article struct {
	Source      string
	Tier        Tier
	Title       string
	URL         string
	Summary     string
	PublishedAt time.Time // zero when the source did not carry a parseable date
	Fingerprint string
	Method      FetchMethod
}

// HasPublishedAt reports whether a publish timestamp was parsed for the article.
func (a *Article) HasPublishedAt() bool {
	return !a.PublishedAt.IsZero()
}
