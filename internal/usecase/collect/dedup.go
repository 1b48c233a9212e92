package collect

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"unicode"
)

// Fingerprint computes a stable content fingerprint from a normalized form
// of the article's title and link. Normalization lower-cases and strips
// whitespace and punctuation variance from the title, so near-identical
// titles from re-publication collapse to one fingerprint.
func Fingerprint(title, link string) string {
	h := sha256.New()
	h.Write([]byte(normalizeTitle(title)))
	h.Write([]byte{'\n'})
	h.Write([]byte(normalizeLink(link)))
	return hex.EncodeToString(h.Sum(nil))
}

// normalizeTitle lower-cases the title and drops everything that is not a
// letter or digit, so spacing and punctuation differences don't produce
// distinct fingerprints.
func normalizeTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeLink lower-cases the link and trims surrounding whitespace and
// a trailing slash.
func normalizeLink(s string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(s)), "/")
}

// Deduplicator tracks fingerprints seen within one collection run.
// First occurrence wins; later ones are dropped silently (counted by the
// caller, not erred). State is scoped to a single run and discarded after.
// It serializes access internally so concurrent workers may share it.
type Deduplicator struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDeduplicator creates an empty run-scoped Deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// IsDuplicate reports whether the fingerprint has been seen before in this
// run, recording it as seen if not.
func (d *Deduplicator) IsDuplicate(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[fingerprint]; ok {
		return true
	}
	d.seen[fingerprint] = struct{}{}
	return false
}

// Len returns the number of distinct fingerprints observed so far.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
