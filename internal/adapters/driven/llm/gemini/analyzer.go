// Package gemini provides a repository analyzer using the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/ports/driven"
)

// Ensure Analyzer implements the interface.
var _ driven.Analyzer = (*Analyzer)(nil)

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-2.0-flash-exp"

// Config holds configuration for the Gemini analyzer.
type Config struct {
	// APIKey authenticates against the hosted Gemini API. Required.
	APIKey string

	// Model is the generation model (default: gemini-2.0-flash-exp).
	Model string
}

// Analyzer assesses repositories through the hosted Gemini API.
type Analyzer struct {
	client      *genai.Client
	model       string
	promptStore driven.PromptStore
}

// New creates a Gemini analyzer. The client targets the Gemini API
// backend with a static API key; Vertex AI is out of scope here.
func New(ctx context.Context, cfg Config) (*Analyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", domain.ErrInvalidInput)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Analyzer{
		client: client,
		model:  cfg.Model,
	}, nil
}

// defaultAnalysisPrompt mirrors the Ollama analyzer's template so both
// backends can share prompt overrides through the same store.
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

// AnalyzeRepository asks Gemini for a short assessment of one repository.
func (a *Analyzer) AnalyzeRepository(ctx context.Context, repo domain.Repository) (string, error) {
	template := a.loadPrompt(driven.PromptRepoAnalysis, defaultAnalysisPrompt)
	prompt := fmt.Sprintf(template,
		repo.Name,
		repo.FullName,
		repo.Description,
		repo.Language,
		repo.Stars,
		strings.Join(repo.Topics, ", "),
		strings.Join(repo.MatchingKeywords, ", "),
	)

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: 200,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAnalyzerUnavailable, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrAnalyzerUnavailable)
	}
	return text, nil
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
func (a *Analyzer) SetPromptStore(store driven.PromptStore) {
	a.promptStore = store
}

// ModelName returns the name of the model being used.
func (a *Analyzer) ModelName() string {
	return a.model
}

// Ping validates the API key by listing a single model.
func (a *Analyzer) Ping(ctx context.Context) error {
	_, err := a.client.Models.Get(ctx, a.model, &genai.GetModelConfig{})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAnalyzerUnavailable, err)
	}
	return nil
}

// Close releases resources. The genai client holds no connection that
// needs explicit cleanup.
func (a *Analyzer) Close() error {
	return nil
}
