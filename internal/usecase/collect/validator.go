package collect

import (
	"fmt"
	"strings"

	"intelwatch/internal/domain/entity"
)

// Rejection reasons reported by the validator.
const (
	ReasonEmptyTitle  = "empty_title"
	ReasonShortTitle  = "short_title"
	ReasonStoplisted  = "stoplisted_title"
	ReasonInvalidLink = "invalid_link"
)

// defaultMinTitleLength filters navigation labels and UI noise that leak
// through loose selectors ("More", "Next", ...).
const defaultMinTitleLength = 10

// RejectionError explains why an article was dropped by validation.
// Rejections are per-article and non-fatal; the pipeline counts them and
// moves on.
type RejectionError struct {
	Reason string
	Detail string
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	return fmt.Sprintf("article rejected (%s): %s", e.Reason, e.Detail)
}

// Validator applies the content quality rules to candidate articles.
// It is stateless and safe for concurrent use.
type Validator struct {
	minTitleLength int
	stoplist       []string
}

// NewValidator creates a Validator.
// minTitleLength <= 0 selects the default threshold. Stoplist entries are
// matched case-insensitively as substrings of the title.
func NewValidator(minTitleLength int, stoplist []string) *Validator {
	if minTitleLength <= 0 {
		minTitleLength = defaultMinTitleLength
	}
	lowered := make([]string, 0, len(stoplist))
	for _, phrase := range stoplist {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" {
			lowered = append(lowered, phrase)
		}
	}
	return &Validator{minTitleLength: minTitleLength, stoplist: lowered}
}

// Validate returns nil if the article passes all quality checks, or a
// *RejectionError naming the first failed check.
func (v *Validator) Validate(a entity.Article) error {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		return &RejectionError{Reason: ReasonEmptyTitle, Detail: "title is empty"}
	}

	if len([]rune(title)) < v.minTitleLength {
		return &RejectionError{
			Reason: ReasonShortTitle,
			Detail: fmt.Sprintf("title %q below %d characters", title, v.minTitleLength),
		}
	}

	lowerTitle := strings.ToLower(title)
	for _, phrase := range v.stoplist {
		if strings.Contains(lowerTitle, phrase) {
			return &RejectionError{
				Reason: ReasonStoplisted,
				Detail: fmt.Sprintf("title matches stoplist phrase %q", phrase),
			}
		}
	}

	if err := entity.ValidateURL(a.URL); err != nil {
		return &RejectionError{
			Reason: ReasonInvalidLink,
			Detail: fmt.Sprintf("link %q: %v", a.URL, err),
		}
	}

	return nil
}
