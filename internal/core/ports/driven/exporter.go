package driven

import "github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"

// Exporter serialises collected records to output files.
// Pure serialisation, no network.
type Exporter interface {
	// WriteJSON writes the records as an indented JSON array.
	// A nil Analysis serialises as null.
	WriteJSON(records []domain.Repository, path string) error

	// WriteCSV writes the records with a fixed header row.
	// A nil Analysis serialises as an empty field, never as the
	// string "null", to keep downstream spreadsheet tooling clean.
	WriteCSV(records []domain.Repository, path string) error
}
