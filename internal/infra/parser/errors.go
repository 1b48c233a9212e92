// Package parser turns fetched payloads into candidate articles.
// The feed parser handles RSS/Atom XML; the HTML parser scrapes pages
// using per-source CSS selectors.
package parser

import (
	"fmt"

	"intelwatch/internal/domain/entity"
)

// ParseError reports a malformed payload. It is a structured, non-fatal
// error: the source pipeline treats it as a signal to fall back to the
// next method, never as a reason to abort the run.
type ParseError struct {
	Source string
	Method entity.FetchMethod
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s payload for source %q: %v", e.Method, e.Source, e.Err)
}

// Unwrap returns the underlying parse failure.
func (e *ParseError) Unwrap() error {
	return e.Err
}
