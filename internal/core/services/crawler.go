package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/ports/driven"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/logger"
)

// RunOptions configures one crawl run.
type RunOptions struct {
	Query      domain.SearchQuery
	MaxResults int
	MaxPages   int

	// Filter narrows and ranks collected records by keyword
	// relevance. The zero value disables filtering.
	Filter domain.KeywordFilter

	// JSONPath and CSVPath are the output files. At least one must be
	// set; this is validated before any network call.
	JSONPath string
	CSVPath  string
}

// Crawler orchestrates a full run: collect, filter, enrich, export.
type Crawler struct {
	collector *Collector
	analyzer  driven.Analyzer // nil disables enrichment
	exporter  driven.Exporter
}

// NewCrawler creates the orchestration service. A nil analyzer
// disables enrichment; records are exported with a null analysis.
func NewCrawler(collector *Collector, analyzer driven.Analyzer, exporter driven.Exporter) *Crawler {
	return &Crawler{
		collector: collector,
		analyzer:  analyzer,
		exporter:  exporter,
	}
}

// Run executes one crawl. No output files are written unless the
// collection completed; enrichment failures are per-record and never
// abort the run.
func (s *Crawler) Run(ctx context.Context, opts RunOptions) (*domain.CollectionResult, error) {
	if opts.JSONPath == "" && opts.CSVPath == "" {
		return nil, domain.ErrNoOutputConfigured
	}

	runID := uuid.NewString()
	logger.Section("collect")
	logger.Info("run %s: query %q, min stars %d, max results %d, max pages %d",
		runID, opts.Query.Keywords, opts.Query.MinStars, opts.MaxResults, opts.MaxPages)

	result, err := s.collector.Collect(ctx, opts.Query, opts.MaxResults, opts.MaxPages)
	if err != nil {
		return nil, err
	}
	logger.Info("run %s: collected %d records (truncated=%t)", runID, len(result.Records), result.Truncated)

	if opts.Filter.Enabled() {
		before := len(result.Records)
		result.Records = opts.Filter.Apply(result.Records)
		logger.Info("run %s: keyword filter kept %d of %d records", runID, len(result.Records), before)
	}

	s.enrich(ctx, runID, result.Records)

	if opts.JSONPath != "" {
		if err := s.exporter.WriteJSON(result.Records, opts.JSONPath); err != nil {
			return nil, fmt.Errorf("write JSON output: %w", err)
		}
		logger.Info("run %s: JSON results saved to %s", runID, opts.JSONPath)
	}
	if opts.CSVPath != "" {
		if err := s.exporter.WriteCSV(result.Records, opts.CSVPath); err != nil {
			return nil, fmt.Errorf("write CSV output: %w", err)
		}
		logger.Info("run %s: CSV results saved to %s", runID, opts.CSVPath)
	}

	return result, nil
}

// enrich attaches analysis text to each record in place. Enrichment is
// best-effort: an unreachable backend disables it for the run, and a
// per-record failure leaves that record's analysis nil.
func (s *Crawler) enrich(ctx context.Context, runID string, records []domain.Repository) {
	if s.analyzer == nil || len(records) == 0 {
		return
	}

	logger.Section("analyze")
	if err := s.analyzer.Ping(ctx); err != nil {
		logger.Warn("run %s: analyzer %s unreachable, skipping enrichment: %v",
			runID, s.analyzer.ModelName(), err)
		return
	}

	for i := range records {
		analysis, err := s.analyzer.AnalyzeRepository(ctx, records[i])
		if err != nil {
			logger.Warn("run %s: analysis failed for %s: %v", runID, records[i].FullName, err)
			continue
		}
		records[i].Analysis = &analysis
		logger.Debug("run %s: analyzed %d/%d %s", runID, i+1, len(records), records[i].FullName)
	}
}
