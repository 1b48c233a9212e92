package entity

import (
	"fmt"
)

// Tier classifies a source's priority. Lower values win cross-source
// deduplication tie-breaks and group reporting output.
type Tier int

const (
	// TierPrimary marks primary competitor sources.
	TierPrimary Tier = 1

	// TierMarket marks broader market-signal sources.
	TierMarket Tier = 2
)

// Selectors holds the CSS selectors used by the HTML fallback parser.
// Article locates the repeated container; the remaining selectors are
// evaluated relative to each container.
type Selectors struct {
	Article string `yaml:"article"`
	Title   string `yaml:"title"`
	Link    string `yaml:"link"`
	Date    string `yaml:"date"`
}

// SourceConfig describes one configured content source.
// At least one of FeedURL or PageURL must be set; sources with a PageURL
// also need selectors so the HTML fallback knows where to look.
// The configuration is immutable once loaded for a run.
type SourceConfig struct {
	Name      string     `yaml:"name"`
	Tier      Tier       `yaml:"tier"`
	FeedURL   string     `yaml:"feed_url,omitempty"`
	PageURL   string     `yaml:"page_url,omitempty"`
	Selectors *Selectors `yaml:"selectors,omitempty"`
}

// HasFeed reports whether the source has an RSS/Atom feed URL configured.
func (s *SourceConfig) HasFeed() bool {
	return s.FeedURL != ""
}

// HasPage reports whether the source has a page URL for HTML fallback.
func (s *SourceConfig) HasPage() bool {
	return s.PageURL != ""
}

// Validate checks the SourceConfig invariants.
// It is called once at configuration load time; a failure here is a
// precondition violation and aborts the process before any run starts.
func (s *SourceConfig) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "source name is required"}
	}

	if !s.HasFeed() && !s.HasPage() {
		return fmt.Errorf("source %q: %w", s.Name, ErrNoFetchMethod)
	}

	if s.Tier == 0 {
		s.Tier = TierMarket
	}
	if s.Tier < TierPrimary {
		return &ValidationError{Field: "tier", Message: fmt.Sprintf("invalid tier %d", s.Tier)}
	}

	if s.HasFeed() {
		if err := ValidateURL(s.FeedURL); err != nil {
			return fmt.Errorf("source %q feed_url: %w", s.Name, err)
		}
	}

	if s.HasPage() {
		if err := ValidateURL(s.PageURL); err != nil {
			return fmt.Errorf("source %q page_url: %w", s.Name, err)
		}
		if s.Selectors == nil || s.Selectors.Article == "" {
			return fmt.Errorf("source %q: selectors.article is required when page_url is set", s.Name)
		}
	}

	return nil
}
