package driven

import (
	"context"

	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"
)

// Analyzer produces an AI-generated assessment for one repository.
// This is an optional service - when nil, records are exported without
// analysis text.
//
// Implementations may include:
//   - Ollama (local inference server)
//   - Gemini (hosted generative API)
type Analyzer interface {
	// AnalyzeRepository returns a short assessment of one repository.
	// Calls are synchronous and single-item; there is no batching.
	// A failure is local to the record: the caller keeps the record
	// with no analysis rather than dropping it.
	AnalyzeRepository(ctx context.Context, repo domain.Repository) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the backend is reachable by making a lightweight
	// test request. Used at startup before committing to enrichment.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// PromptStore loads prompt templates by name, letting users override
// the built-in analysis prompt without rebuilding.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}

// Prompt names recognised by the prompt store.
const (
	PromptRepoAnalysis = "repo_analysis"
)
