// Package report renders a collection run into files: a Markdown digest
// for humans, an HTML dashboard, and a JSON data file for downstream
// tooling.
package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"intelwatch/internal/domain/entity"
	"intelwatch/internal/usecase/collect"
)

// Writer renders run output into the configured directories.
type Writer struct {
	reportsDir string
	dataDir    string
	logger     *slog.Logger

	// now is swapped in tests for stable file names.
	now func() time.Time
}

// NewWriter creates a Writer. Directories are created on first write.
func NewWriter(reportsDir, dataDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		reportsDir: reportsDir,
		dataDir:    dataDir,
		logger:     logger,
		now:        time.Now,
	}
}

// Output lists the files produced by one WriteAll call.
type Output struct {
	MarkdownPath string
	HTMLPath     string
	DataPath     string
}

// WriteAll renders every report format for the run.
// Formats are independent; the first failure aborts so a partial run is
// visible rather than silently incomplete.
func (w *Writer) WriteAll(articles []entity.Article, run *collect.RunMetrics) (Output, error) {
	stamp := w.now().UTC().Format("2006-01-02_150405")
	out := Output{
		MarkdownPath: filepath.Join(w.reportsDir, fmt.Sprintf("digest_%s.md", stamp)),
		HTMLPath:     filepath.Join(w.reportsDir, fmt.Sprintf("digest_%s.html", stamp)),
		DataPath:     filepath.Join(w.dataDir, fmt.Sprintf("articles_%s.json", stamp)),
	}

	if err := os.MkdirAll(w.reportsDir, 0o755); err != nil {
		return Output{}, fmt.Errorf("create reports dir: %w", err)
	}
	if err := os.MkdirAll(w.dataDir, 0o755); err != nil {
		return Output{}, fmt.Errorf("create data dir: %w", err)
	}

	view := buildView(articles, run, w.now())

	if err := w.writeMarkdown(out.MarkdownPath, view); err != nil {
		return Output{}, err
	}
	if err := w.writeHTML(out.HTMLPath, view); err != nil {
		return Output{}, err
	}
	if err := w.writeData(out.DataPath, articles, run); err != nil {
		return Output{}, err
	}

	w.logger.Info("reports written",
		slog.String("markdown", out.MarkdownPath),
		slog.String("html", out.HTMLPath),
		slog.String("data", out.DataPath))
	return out, nil
}

// articleJSON is the stable on-disk article schema.
type articleJSON struct {
	Source      string `json:"source"`
	Tier        int    `json:"tier"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	PublishedAt string `json:"published_at,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Method      string `json:"method"`
}

// dataFile is the top-level JSON data file schema.
type dataFile struct {
	RunID       string              `json:"run_id"`
	GeneratedAt string              `json:"generated_at"`
	Metrics     *collect.RunMetrics `json:"metrics"`
	Articles    []articleJSON       `json:"articles"`
}

// writeData writes the machine-readable JSON data file.
func (w *Writer) writeData(path string, articles []entity.Article, run *collect.RunMetrics) error {
	items := make([]articleJSON, 0, len(articles))
	for _, a := range articles {
		item := articleJSON{
			Source:  a.Source,
			Tier:    int(a.Tier),
			Title:   a.Title,
			Link:    a.URL,
			Summary: a.Summary,
			Method:  string(a.Method),
		}
		if a.HasPublishedAt() {
			item.PublishedAt = a.PublishedAt.UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}

	payload, err := json.MarshalIndent(dataFile{
		RunID:       run.RunID,
		GeneratedAt: w.now().UTC().Format(time.RFC3339),
		Metrics:     run,
		Articles:    items,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}

// tierSection groups the articles of one tier for template rendering.
type tierSection struct {
	Tier     entity.Tier
	Label    string
	Articles []entity.Article
}

// reportView is the data handed to the Markdown and HTML templates.
type reportView struct {
	GeneratedAt string
	Run         *collect.RunMetrics
	Tiers       []tierSection
}

// buildView groups articles by tier, preserving the run's merge order
// within each tier.
func buildView(articles []entity.Article, run *collect.RunMetrics, at time.Time) reportView {
	byTier := make(map[entity.Tier][]entity.Article)
	for _, a := range articles {
		byTier[a.Tier] = append(byTier[a.Tier], a)
	}

	tiers := make([]entity.Tier, 0, len(byTier))
	for t := range byTier {
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(a, b int) bool { return tiers[a] < tiers[b] })

	view := reportView{
		GeneratedAt: at.UTC().Format("2006-01-02 15:04 UTC"),
		Run:         run,
	}
	for _, t := range tiers {
		view.Tiers = append(view.Tiers, tierSection{
			Tier:     t,
			Label:    tierLabel(t),
			Articles: byTier[t],
		})
	}
	return view
}

func tierLabel(t entity.Tier) string {
	switch t {
	case entity.TierPrimary:
		return "Primary Competitors"
	case entity.TierMarket:
		return "Market Signals"
	default:
		return fmt.Sprintf("Tier %d", t)
	}
}
