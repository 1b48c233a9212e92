// Command collector runs one collection pass over the configured sources
// and writes the digest reports. It is designed to run from cron or a CI
// schedule: the process exits 0 when the run completes, even if every
// source failed, and non-zero only for configuration or startup errors.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intelwatch/internal/config"
	"intelwatch/internal/infra/enrich"
	"intelwatch/internal/infra/httpx"
	"intelwatch/internal/observability/logging"
	"intelwatch/internal/report"
	"intelwatch/internal/resilience/retry"
	"intelwatch/internal/usecase/collect"
	pkgconfig "intelwatch/pkg/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = pkgconfig.GetEnvString("CONFIG_PATH", "config.yaml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("configuration error", slog.Any("error", err))
		return 1
	}
	logger.Info("configuration loaded",
		slog.String("path", path),
		slog.Int("sources", len(cfg.Sources)),
		slog.Int("max_concurrency", cfg.Scraping.MaxConcurrency),
		slog.Bool("enrich_summaries", cfg.EnrichSummaries))

	// One run is bounded; RUN_TIMEOUT caps a pass that hangs on slow hosts.
	runTimeout := pkgconfig.GetEnvDuration("RUN_TIMEOUT", 15*time.Minute)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	shutdownMetrics := startMetricsServer(logger)
	defer shutdownMetrics()

	runner := buildRunner(cfg, logger)

	articles, runMetrics := runner.Execute(ctx, cfg.Sources)

	writer := report.NewWriter(cfg.Output.ReportsDir, cfg.Output.DataDir, logger)
	out, err := writer.WriteAll(articles, runMetrics)
	if err != nil {
		logger.Error("failed to write reports", slog.Any("error", err))
		return 1
	}

	logger.Info("run complete",
		slog.String("run_id", runMetrics.RunID),
		slog.Int("articles", runMetrics.TotalArticles),
		slog.Int("sources_succeeded", runMetrics.SourcesSucceeded),
		slog.Int("sources_failed", runMetrics.SourcesFailed),
		slog.String("report", out.MarkdownPath))
	return 0
}

// buildRunner wires the fetch client, pipeline, and runner from the
// loaded configuration.
func buildRunner(cfg config.Config, logger *slog.Logger) *collect.Runner {
	feedRetry := retry.FeedConfig()
	feedRetry.MaxAttempts = cfg.Scraping.MaxAttempts
	pageRetry := retry.PageConfig()
	pageRetry.MaxAttempts = cfg.Scraping.MaxAttempts

	client := httpx.NewClient(
		&http.Client{Timeout: cfg.Scraping.Timeout},
		httpx.NewRotator(cfg.UserAgents),
		httpx.NewHostLimiter(cfg.Scraping.MinDelay, cfg.Scraping.MaxJitter),
		feedRetry,
		pageRetry,
	)

	var enricher collect.Enricher
	if cfg.EnrichSummaries {
		enricher = enrich.NewExcerptFetcher(client, 0)
	}

	validator := collect.NewValidator(cfg.Validation.MinTitleLength, cfg.Validation.Stoplist)
	pipeline := collect.NewPipeline(client, validator, enricher, cfg.Scraping.MaxArticlesPerSource, logger)

	return collect.NewRunner(pipeline, cfg.Scraping.MaxConcurrency, logger)
}
