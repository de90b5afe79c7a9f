// Package ollama provides a repository analyzer using a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/ports/driven"
)

// Ensure Analyzer implements the interface.
var _ driven.Analyzer = (*Analyzer)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "codellama:7b"
	DefaultTimeout = 180 * time.Second
)

// Config holds configuration for the Ollama analyzer.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: codellama:7b).
	Model string

	// Timeout is the request timeout (default: 180s, local inference
	// can be slow).
	Timeout time.Duration
}

// Analyzer assesses repositories using Ollama's /api/generate endpoint.
type Analyzer struct {
	client      *http.Client
	baseURL     string
	model       string
	promptStore driven.PromptStore
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// New creates a new Ollama analyzer.
func New(cfg Config) *Analyzer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Analyzer{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// defaultAnalysisPrompt is the fallback prompt when no PromptStore is
// configured. Expands with name, full name, description, language,
// stars, topics and matched keywords.
const defaultAnalysisPrompt = `Analyze this GitHub repository and assess its usefulness.
Answer with EXACTLY "Yes -" or "No -" followed by a brief reason.
Keep your entire response under 100 characters.

Repository details:
- Name: %s
- Full Name: %s
- Description: %s
- Language: %s
- Stars: %d
- Topics: %s
- Matching Keywords: %s

Give your assessment now:`

// AnalyzeRepository asks the model for a short Yes/No assessment of
// one repository. A failure is reported as domain.ErrAnalyzerUnavailable
// so callers keep the record without analysis.
func (a *Analyzer) AnalyzeRepository(ctx context.Context, repo domain.Repository) (string, error) {
	prompt := buildPrompt(a.loadPrompt(driven.PromptRepoAnalysis, defaultAnalysisPrompt), repo)

	reqBody := generateRequest{
		Model:  a.model,
		Prompt: prompt,
		Stream: false,
		Options: &options{
			NumPredict:  200,
			Temperature: 0.3,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		a.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAnalyzerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("%w: ollama status %d", domain.ErrAnalyzerUnavailable, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: ollama status %d: %s", domain.ErrAnalyzerUnavailable, resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return strings.TrimSpace(genResp.Response), nil
}

// buildPrompt expands the template with the record's fields.
func buildPrompt(template string, repo domain.Repository) string {
	return fmt.Sprintf(template,
		repo.Name,
		repo.FullName,
		repo.Description,
		repo.Language,
		repo.Stars,
		strings.Join(repo.Topics, ", "),
		strings.Join(repo.MatchingKeywords, ", "),
	)
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (a *Analyzer) loadPrompt(name, fallback string) string {
	if a.promptStore == nil {
		return fallback
	}
	prompt, err := a.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the analyzer uses the hardcoded default prompt.
func (a *Analyzer) SetPromptStore(store driven.PromptStore) {
	a.promptStore = store
}

// ModelName returns the name of the model being used.
func (a *Analyzer) ModelName() string {
	return a.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (a *Analyzer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ping failed: %v", domain.ErrAnalyzerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ollama status %d", domain.ErrAnalyzerUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (a *Analyzer) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
