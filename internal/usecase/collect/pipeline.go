package collect

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"intelwatch/internal/domain/entity"
	"intelwatch/internal/infra/httpx"
	"intelwatch/internal/infra/parser"
	"intelwatch/internal/observability/metrics"
)

// State is a stage in the per-source collection state machine.
type State int

// Pipeline states. A source always terminates in StateDone or StateFailed.
const (
	StateInit State = iota
	StateTryRSS
	StateTryHTML
	StateValidate
	StateDedupe
	StateDone
	StateFailed
)

// String returns the lowercase state name used in logs and metrics.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateTryRSS:
		return "try_rss"
	case StateTryHTML:
		return "try_html"
	case StateValidate:
		return "validate"
	case StateDedupe:
		return "dedupe"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Enricher fills in a missing summary by fetching the article page.
// Implementations are best-effort; an error leaves the summary empty.
type Enricher interface {
	Excerpt(ctx context.Context, rawURL string) (string, error)
}

// SourceResult is the outcome of collecting one source.
type SourceResult struct {
	Source     entity.SourceConfig
	State      State
	Method     entity.FetchMethod
	Articles   []entity.Article
	Rejected   int
	Duplicated int
	Err        error
	Duration   time.Duration
}

// Succeeded reports whether the source terminated in StateDone.
// A source that produced zero articles without an error still succeeded.
func (r SourceResult) Succeeded() bool {
	return r.State == StateDone
}

// Pipeline collects articles from a single source: feed first, HTML page
// as fallback, then validation, per-source deduplication, and optional
// summary enrichment. One Pipeline is shared by all workers in a run; it
// holds no per-source state.
type Pipeline struct {
	client       *httpx.Client
	feed         *parser.FeedParser
	html         *parser.HTMLParser
	validator    *Validator
	enricher     Enricher
	maxPerSource int
	logger       *slog.Logger
}

// NewPipeline creates a Pipeline.
// enricher may be nil to disable summary enrichment. maxPerSource <= 0
// means no per-source article cap.
func NewPipeline(client *httpx.Client, validator *Validator, enricher Enricher, maxPerSource int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		client:       client,
		feed:         parser.NewFeedParser(),
		html:         parser.NewHTMLParser(),
		validator:    validator,
		enricher:     enricher,
		maxPerSource: maxPerSource,
		logger:       logger,
	}
}

// Run collects one source to completion. It never panics and never returns
// an in-band error; failures are captured in the result so one bad source
// cannot sink a run.
func (p *Pipeline) Run(ctx context.Context, src entity.SourceConfig) SourceResult {
	start := time.Now()
	res := SourceResult{Source: src, State: StateInit, Method: entity.MethodNone}

	var candidates []entity.Article
	var lastErr error

	state := StateInit
	for {
		switch state {
		case StateInit:
			switch {
			case src.HasFeed():
				state = StateTryRSS
			case src.HasPage():
				state = StateTryHTML
			default:
				lastErr = entity.ErrNoFetchMethod
				state = StateFailed
			}

		case StateTryRSS:
			candidates, lastErr = p.fetchCandidates(ctx, src, entity.MethodRSS)
			if lastErr != nil {
				if src.HasPage() {
					p.logger.Warn("feed failed, falling back to page",
						slog.String("source", src.Name),
						slog.Any("error", lastErr))
					state = StateTryHTML
					continue
				}
				state = StateFailed
				continue
			}
			res.Method = entity.MethodRSS
			state = StateValidate

		case StateTryHTML:
			candidates, lastErr = p.fetchCandidates(ctx, src, entity.MethodHTML)
			if lastErr != nil {
				state = StateFailed
				continue
			}
			res.Method = entity.MethodHTML
			state = StateValidate

		case StateValidate:
			valid := p.validate(src, candidates)
			res.Rejected += len(candidates) - len(valid)

			// A feed that produced nothing usable is treated the same as
			// a failed feed: fall back to the page when one is configured.
			if len(valid) == 0 && res.Method == entity.MethodRSS && src.HasPage() {
				p.logger.Warn("feed produced no valid articles, falling back to page",
					slog.String("source", src.Name),
					slog.Int("candidates", len(candidates)))
				state = StateTryHTML
				continue
			}

			candidates = valid
			state = StateDedupe

		case StateDedupe:
			res.Articles, res.Duplicated = p.dedupe(ctx, src, candidates)
			state = StateDone

		case StateDone:
			res.State = StateDone
			res.Duration = time.Since(start)
			p.logger.Info("source collected",
				slog.String("source", src.Name),
				slog.String("method", string(res.Method)),
				slog.Int("articles", len(res.Articles)),
				slog.Int("rejected", res.Rejected),
				slog.Int("duplicated", res.Duplicated),
				slog.Duration("duration", res.Duration))
			return res

		case StateFailed:
			res.State = StateFailed
			res.Err = lastErr
			res.Duration = time.Since(start)
			p.logger.Error("source failed",
				slog.String("source", src.Name),
				slog.String("category", ErrorCategory(lastErr)),
				slog.Any("error", lastErr))
			return res
		}
	}
}

// fetchCandidates fetches the source URL for the given method and parses
// the payload into candidate articles, newest-first capped at maxPerSource.
func (p *Pipeline) fetchCandidates(ctx context.Context, src entity.SourceConfig, method entity.FetchMethod) ([]entity.Article, error) {
	var fetched *httpx.Result
	var err error
	switch method {
	case entity.MethodRSS:
		fetched, err = p.client.GetFeed(ctx, src.FeedURL)
	case entity.MethodHTML:
		fetched, err = p.client.GetPage(ctx, src.PageURL)
	}
	if err != nil {
		return nil, err
	}

	var items []entity.Article
	switch method {
	case entity.MethodRSS:
		items, err = p.feed.Parse(fetched.Body, src)
	case entity.MethodHTML:
		items, err = p.html.Parse(fetched.Body, src)
	}
	if err != nil {
		return nil, err
	}

	if p.maxPerSource > 0 && len(items) > p.maxPerSource {
		items = items[:p.maxPerSource]
	}
	return items, nil
}

// validate filters candidates through the content validator, logging and
// counting rejections via metrics.
func (p *Pipeline) validate(src entity.SourceConfig, candidates []entity.Article) []entity.Article {
	valid := make([]entity.Article, 0, len(candidates))
	for _, a := range candidates {
		if err := p.validator.Validate(a); err != nil {
			reason := "invalid"
			var rejection *RejectionError
			if errors.As(err, &rejection) {
				reason = rejection.Reason
			}
			metrics.RecordArticleRejected(src.Name, reason)
			p.logger.Debug("article rejected",
				slog.String("source", src.Name),
				slog.String("reason", reason),
				slog.String("title", a.Title))
			continue
		}
		valid = append(valid, a)
	}
	return valid
}

// dedupe assigns fingerprints, drops within-source duplicates, and runs
// optional summary enrichment on the survivors.
func (p *Pipeline) dedupe(ctx context.Context, src entity.SourceConfig, candidates []entity.Article) ([]entity.Article, int) {
	local := NewDeduplicator()
	kept := make([]entity.Article, 0, len(candidates))
	duplicated := 0

	for _, a := range candidates {
		a.Fingerprint = Fingerprint(a.Title, a.URL)
		if local.IsDuplicate(a.Fingerprint) {
			duplicated++
			metrics.RecordArticleDuplicated(src.Name, "source")
			continue
		}
		p.enrich(ctx, &a)
		kept = append(kept, a)
	}
	return kept, duplicated
}

// enrich fills in a missing summary from the article page, best-effort.
func (p *Pipeline) enrich(ctx context.Context, a *entity.Article) {
	if p.enricher == nil {
		return
	}
	if a.Summary != "" {
		metrics.RecordExcerptFetch("skipped")
		return
	}

	excerpt, err := p.enricher.Excerpt(ctx, a.URL)
	if err != nil {
		p.logger.Debug("summary enrichment failed",
			slog.String("source", a.Source),
			slog.String("url", a.URL),
			slog.Any("error", err))
		return
	}
	a.Summary = excerpt
}
