package collect

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"intelwatch/internal/domain/entity"
	"intelwatch/internal/observability/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// defaultMaxConcurrency bounds the number of sources collected in parallel
// when the caller does not configure a limit.
const defaultMaxConcurrency = 4

// SourceMetrics summarizes one source's outcome inside a run.
type SourceMetrics struct {
	Source        string             `json:"source"`
	Tier          entity.Tier        `json:"tier"`
	Method        entity.FetchMethod `json:"method"`
	ArticleCount  int                `json:"article_count"`
	Success       bool               `json:"success"`
	DurationMS    int64              `json:"duration_ms"`
	Error         string             `json:"error,omitempty"`
	ErrorCategory string             `json:"error_category,omitempty"`
	Rejected      int                `json:"rejected"`
	Duplicated    int                `json:"duplicated"`
}

// RunMetrics summarizes a whole collection run.
type RunMetrics struct {
	RunID            string          `json:"run_id"`
	StartedAt        time.Time       `json:"started_at"`
	DurationMS       int64           `json:"duration_ms"`
	SourcesAttempted int             `json:"sources_attempted"`
	SourcesSucceeded int             `json:"sources_succeeded"`
	SourcesFailed    int             `json:"sources_failed"`
	TotalArticles    int             `json:"total_articles"`
	Sources          []SourceMetrics `json:"sources"`
}

// Runner executes one collection run over a set of configured sources with
// bounded concurrency. A run never fails as a whole: source failures are
// recorded in the metrics and the remaining sources keep going.
type Runner struct {
	pipeline       *Pipeline
	maxConcurrency int
	logger         *slog.Logger
}

// NewRunner creates a Runner. maxConcurrency <= 0 selects the default.
func NewRunner(pipeline *Pipeline, maxConcurrency int, logger *slog.Logger) *Runner {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		pipeline:       pipeline,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// Execute collects every source and merges the results into one
// deduplicated article set plus per-source and run-level metrics.
//
// Cross-source duplicates are resolved deterministically regardless of
// worker scheduling: results are merged tier-first, then in configured
// source order, so the higher-tier (or earlier-configured) source keeps
// the article. Cancellation stops new work; results already collected are
// returned.
func (r *Runner) Execute(ctx context.Context, sources []entity.SourceConfig) ([]entity.Article, *RunMetrics) {
	start := time.Now()
	run := &RunMetrics{
		RunID:            uuid.NewString(),
		StartedAt:        start.UTC(),
		SourcesAttempted: len(sources),
	}

	r.logger.Info("collection run starting",
		slog.String("run_id", run.RunID),
		slog.Int("sources", len(sources)),
		slog.Int("max_concurrency", r.maxConcurrency))

	results := make([]SourceResult, len(sources))

	var g errgroup.Group
	g.SetLimit(r.maxConcurrency)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = SourceResult{
					Source: src,
					State:  StateFailed,
					Method: entity.MethodNone,
					Err:    err,
				}
				return nil
			}
			results[i] = r.pipeline.Run(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	articles := r.merge(sources, results, run)

	run.TotalArticles = len(articles)
	run.DurationMS = time.Since(start).Milliseconds()

	r.logger.Info("collection run finished",
		slog.String("run_id", run.RunID),
		slog.Int("articles", run.TotalArticles),
		slog.Int("succeeded", run.SourcesSucceeded),
		slog.Int("failed", run.SourcesFailed),
		slog.Duration("duration", time.Since(start)))

	return articles, run
}

// merge folds per-source results into the final article set, dropping
// cross-source duplicates through a single run-scoped deduplicator, and
// fills in the per-source metrics. Iteration order is (tier, configured
// position), which fixes duplicate attribution independent of scheduling.
func (r *Runner) merge(sources []entity.SourceConfig, results []SourceResult, run *RunMetrics) []entity.Article {
	order := make([]int, len(sources))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sources[order[a]].Tier < sources[order[b]].Tier
	})

	dedup := NewDeduplicator()
	var articles []entity.Article
	perSource := make([]SourceMetrics, len(sources))

	for _, idx := range order {
		res := results[idx]
		crossDupes := 0
		kept := 0
		for _, a := range res.Articles {
			if dedup.IsDuplicate(a.Fingerprint) {
				crossDupes++
				metrics.RecordArticleDuplicated(a.Source, "run")
				continue
			}
			articles = append(articles, a)
			kept++
		}

		sm := SourceMetrics{
			Source:       res.Source.Name,
			Tier:         res.Source.Tier,
			Method:       res.Method,
			ArticleCount: kept,
			Success:      res.Succeeded(),
			DurationMS:   res.Duration.Milliseconds(),
			Rejected:     res.Rejected,
			Duplicated:   res.Duplicated + crossDupes,
		}
		if res.Err != nil {
			sm.Error = res.Err.Error()
			sm.ErrorCategory = ErrorCategory(res.Err)
		}
		perSource[idx] = sm

		metrics.RecordSourceCrawl(res.Source.Name, string(res.Method), sm.Success, res.Duration)
		if kept > 0 {
			metrics.RecordArticlesCollected(res.Source.Name, string(res.Method), kept)
		}
	}

	// Report per-source metrics in configured order, not merge order.
	run.Sources = perSource
	for _, sm := range perSource {
		if sm.Success {
			run.SourcesSucceeded++
		} else {
			run.SourcesFailed++
		}
	}

	return articles
}
