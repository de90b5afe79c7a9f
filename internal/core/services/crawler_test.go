package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"
)

type fakeAnalyzer struct {
	pingErr  error
	failFor  map[string]bool // FullName -> fail AnalyzeRepository
	analyzed []string
	closed   bool
}

func (a *fakeAnalyzer) AnalyzeRepository(_ context.Context, repo domain.Repository) (string, error) {
	if a.failFor[repo.FullName] {
		return "", fmt.Errorf("%w: model timed out", domain.ErrAnalyzerUnavailable)
	}
	a.analyzed = append(a.analyzed, repo.FullName)
	return "assessment of " + repo.FullName, nil
}

func (a *fakeAnalyzer) ModelName() string { return "fake-model" }

func (a *fakeAnalyzer) Ping(context.Context) error { return a.pingErr }

func (a *fakeAnalyzer) Close() error {
	a.closed = true
	return nil
}

type fakeExporter struct {
	jsonRecords []domain.Repository
	jsonPath    string
	csvRecords  []domain.Repository
	csvPath     string
	jsonErr     error
	csvErr      error
}

func (e *fakeExporter) WriteJSON(records []domain.Repository, path string) error {
	if e.jsonErr != nil {
		return e.jsonErr
	}
	e.jsonRecords = append([]domain.Repository(nil), records...)
	e.jsonPath = path
	return nil
}

func (e *fakeExporter) WriteCSV(records []domain.Repository, path string) error {
	if e.csvErr != nil {
		return e.csvErr
	}
	e.csvRecords = append([]domain.Repository(nil), records...)
	e.csvPath = path
	return nil
}

func namedRepos(names ...string) []domain.Repository {
	out := make([]domain.Repository, 0, len(names))
	for i, name := range names {
		out = append(out, domain.Repository{
			ID:       int64(i + 1),
			FullName: name,
			Name:     name,
		})
	}
	return out
}

func TestCrawler_Run(t *testing.T) {
	query := domain.SearchQuery{Keywords: "rtos", MinStars: 10}

	newCrawler := func(items []domain.Repository, analyzer *fakeAnalyzer) (*Crawler, *fakeExporter) {
		fetcher := &fakeFetcher{script: []pageScript{
			{result: &domain.PageResult{Items: items}},
		}}
		collector, _ := newTestCollector(fetcher)
		exporter := &fakeExporter{}
		// A typed nil pointer would make the analyzer interface non-nil,
		// so the nil case is handled explicitly.
		if analyzer == nil {
			return NewCrawler(collector, nil, exporter), exporter
		}
		return NewCrawler(collector, analyzer, exporter), exporter
	}

	t.Run("requires at least one output target", func(t *testing.T) {
		crawler, exporter := newCrawler(namedRepos("a/one"), nil)

		_, err := crawler.Run(context.Background(), RunOptions{
			Query:      query,
			MaxResults: 10,
			MaxPages:   5,
		})

		assert.ErrorIs(t, err, domain.ErrNoOutputConfigured)
		assert.Empty(t, exporter.jsonPath)
		assert.Empty(t, exporter.csvPath)
	})

	t.Run("exports to both formats when both paths are set", func(t *testing.T) {
		crawler, exporter := newCrawler(namedRepos("a/one", "a/two"), nil)

		result, err := crawler.Run(context.Background(), RunOptions{
			Query:      query,
			MaxResults: 10,
			MaxPages:   5,
			JSONPath:   "out.json",
			CSVPath:    "out.csv",
		})

		require.NoError(t, err)
		assert.Len(t, result.Records, 2)
		assert.Equal(t, "out.json", exporter.jsonPath)
		assert.Equal(t, "out.csv", exporter.csvPath)
		assert.Len(t, exporter.jsonRecords, 2)
		assert.Len(t, exporter.csvRecords, 2)
	})

	t.Run("no analyzer leaves analysis null", func(t *testing.T) {
		crawler, exporter := newCrawler(namedRepos("a/one"), nil)

		_, err := crawler.Run(context.Background(), RunOptions{
			Query:      query,
			MaxResults: 10,
			MaxPages:   5,
			JSONPath:   "out.json",
		})

		require.NoError(t, err)
		require.Len(t, exporter.jsonRecords, 1)
		assert.Nil(t, exporter.jsonRecords[0].Analysis)
	})

	t.Run("enriches every record when the backend is healthy", func(t *testing.T) {
		analyzer := &fakeAnalyzer{}
		crawler, exporter := newCrawler(namedRepos("a/one", "a/two", "a/three"), analyzer)

		_, err := crawler.Run(context.Background(), RunOptions{
			Query:      query,
			MaxResults: 10,
			MaxPages:   5,
			JSONPath:   "out.json",
		})

		require.NoError(t, err)
		require.Len(t, exporter.jsonRecords, 3)
		for _, record := range exporter.jsonRecords {
			require.NotNil(t, record.Analysis)
			assert.Equal(t, "assessment of "+record.FullName, *record.Analysis)
		}
	})

	t.Run("a failed analysis keeps the record without analysis", func(t *testing.T) {
		analyzer := &fakeAnalyzer{failFor: map[string]bool{"a/three": true}}
		crawler, exporter := newCrawler(namedRepos("a/one", "a/two", "a/three", "a/four", "a/five"), analyzer)

		result, err := crawler.Run(context.Background(), RunOptions{
			Query:      query,
			MaxResults: 10,
			MaxPages:   5,
			JSONPath:   "out.json",
		})

		require.NoError(t, err)
		assert.Len(t, result.Records, 5)

		var withAnalysis int
		for _, record := range exporter.jsonRecords {
			if record.Analysis != nil {
				withAnalysis++
			} else {
				assert.Equal(t, "a/three", record.FullName)
			}
		}
		assert.Equal(t, 4, withAnalysis)
	})

	t.Run("an unreachable backend disables enrichment for the run", func(t *testing.T) {
		analyzer := &fakeAnalyzer{pingErr: errors.New("connection refused")}
		crawler, exporter := newCrawler(namedRepos("a/one", "a/two"), analyzer)

		_, err := crawler.Run(context.Background(), RunOptions{
			Query:      query,
			MaxResults: 10,
			MaxPages:   5,
			JSONPath:   "out.json",
		})

		require.NoError(t, err)
		assert.Empty(t, analyzer.analyzed)
		require.Len(t, exporter.jsonRecords, 2)
		assert.Nil(t, exporter.jsonRecords[0].Analysis)
	})

	t.Run("keyword filter narrows and ranks before enrichment", func(t *testing.T) {
		items := []domain.Repository{
			{ID: 1, FullName: "a/zephyr", Description: "an RTOS kernel for embedded devices"},
			{ID: 2, FullName: "a/webapp", Description: "a web dashboard"},
			{ID: 3, FullName: "a/freertos", Description: "embedded RTOS with embedded tooling"},
		}
		analyzer := &fakeAnalyzer{}
		crawler, exporter := newCrawler(items, analyzer)

		result, err := crawler.Run(context.Background(), RunOptions{
			Query:      query,
			MaxResults: 10,
			MaxPages:   5,
			Filter:     domain.KeywordFilter{Required: []string{"embedded"}},
			JSONPath:   "out.json",
		})

		require.NoError(t, err)
		require.Len(t, result.Records, 2)
		// Only the surviving records are analyzed.
		assert.Len(t, analyzer.analyzed, 2)
		assert.NotContains(t, analyzer.analyzed, "a/webapp")
		assert.Len(t, exporter.jsonRecords, 2)
	})

	t.Run("propagates export failures", func(t *testing.T) {
		fetcher := &fakeFetcher{script: []pageScript{
			{result: &domain.PageResult{Items: namedRepos("a/one")}},
		}}
		collector, _ := newTestCollector(fetcher)
		exporter := &fakeExporter{jsonErr: errors.New("disk full")}
		crawler := NewCrawler(collector, nil, exporter)

		_, err := crawler.Run(context.Background(), RunOptions{
			Query:      query,
			MaxResults: 10,
			MaxPages:   5,
			JSONPath:   "out.json",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("collection failure writes no output", func(t *testing.T) {
		fetcher := &fakeFetcher{script: []pageScript{
			{err: &domain.MalformedError{Page: 1, Err: errors.New("bad payload")}},
		}}
		collector, _ := newTestCollector(fetcher)
		exporter := &fakeExporter{}
		crawler := NewCrawler(collector, nil, exporter)

		_, err := crawler.Run(context.Background(), RunOptions{
			Query:      query,
			MaxResults: 10,
			MaxPages:   5,
			JSONPath:   "out.json",
			CSVPath:    "out.csv",
		})

		require.Error(t, err)
		assert.Empty(t, exporter.jsonPath)
		assert.Empty(t, exporter.csvPath)
	})
}
