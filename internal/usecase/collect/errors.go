// Package collect implements the fetch-and-normalize pipeline: per-source
// RSS-then-HTML collection with validation and deduplication, and the run
// orchestrator that aggregates sources into one article set plus metrics.
package collect

import (
	"context"
	"errors"

	"intelwatch/internal/infra/parser"
	"intelwatch/internal/resilience/retry"
)

// Error categories surfaced in run metrics. Per-source errors never
// propagate past the run boundary; the category plus message is what the
// caller gets to decide follow-up action.
const (
	CategoryTransient = "transient"
	CategoryPermanent = "permanent"
	CategoryParse     = "parse"
	CategoryCancelled = "cancelled"
	CategoryConfig    = "config"
)

// ErrorCategory classifies a source failure for metrics reporting.
func ErrorCategory(err error) string {
	if err == nil {
		return ""
	}

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return CategoryParse
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryCancelled
	}

	if retry.IsRetryable(err) {
		return CategoryTransient
	}

	return CategoryPermanent
}
