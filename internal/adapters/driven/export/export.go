// Package export writes collected records to JSON and CSV files.
// Pure serialisation, no network.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/ports/driven"
)

// Ensure FileExporter implements the interface.
var _ driven.Exporter = (*FileExporter)(nil)

// CSVHeader is the fixed column order for CSV output.
var CSVHeader = []string{
	"id",
	"full_name",
	"name",
	"description",
	"language",
	"stars",
	"forks",
	"html_url",
	"created_at",
	"updated_at",
	"topics",
	"keyword_matches",
	"matching_keywords",
	"analysis",
}

// FileExporter serialises records to local files. Output files are
// written atomically: content goes to a temp file in the target
// directory first, then replaces the destination.
type FileExporter struct{}

// New creates a file exporter.
func New() *FileExporter {
	return &FileExporter{}
}

// WriteJSON writes the records as an indented JSON array. A record
// without analysis serialises its analysis field as null.
func (e *FileExporter) WriteJSON(records []domain.Repository, path string) error {
	if records == nil {
		records = []domain.Repository{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	data = append(data, '\n')
	return writeAtomic(path, data)
}

// WriteCSV writes the records with the fixed CSVHeader row. A nil
// analysis becomes an empty field, never a "null" placeholder, so
// downstream spreadsheet tooling stays clean.
func (e *FileExporter) WriteCSV(records []domain.Repository, path string) error {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(CSVHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, record := range records {
		analysis := ""
		if record.Analysis != nil {
			analysis = *record.Analysis
		}
		row := []string{
			strconv.FormatInt(record.ID, 10),
			record.FullName,
			record.Name,
			record.Description,
			record.Language,
			strconv.Itoa(record.Stars),
			strconv.Itoa(record.Forks),
			record.HTMLURL,
			formatTime(record.CreatedAt),
			formatTime(record.UpdatedAt),
			strings.Join(record.Topics, ", "),
			strconv.Itoa(record.KeywordMatchCount),
			strings.Join(record.MatchingKeywords, ", "),
			analysis,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write CSV row for %s: %w", record.FullName, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return writeAtomic(path, []byte(sb.String()))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// writeAtomic writes data to path via a temp file and rename, so a
// failed run never leaves a half-written output file behind.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
