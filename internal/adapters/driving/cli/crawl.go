package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/Dev-athrv/Github-Crawler-AI/internal/adapters/driven/config/file"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/adapters/driven/export"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/adapters/driven/llm/gemini"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/adapters/driven/llm/ollama"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/connectors/github"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/ports/driven"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/services"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/logger"
)

// Analyzer backends selectable via --backend.
const (
	backendOllama = "ollama"
	backendGemini = "gemini"
)

var (
	crawlGitHubToken  string
	crawlQuery        string
	crawlLanguage     string
	crawlMinStars     int
	crawlMaxResults   int
	crawlMaxPages     int
	crawlSort         string
	crawlOrder        string
	crawlOutputJSON   string
	crawlOutputCSV    string
	crawlAnalyze      bool
	crawlBackend      string
	crawlGeminiAPIKey string
	crawlOllamaURL    string
	crawlOllamaModel  string
	crawlKeywords     []string
	crawlExcluded     []string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Search GitHub and export matching repositories",
	Long: `Searches the GitHub repository search API page by page, honouring
rate limits, and exports the collected records.

At least one of --output-json or --output-csv is required; this is
checked before any network call is made.

With --analyze, each record is assessed by an AI backend. Enrichment
is best-effort: a failed assessment leaves that record's analysis
empty without aborting the run.`,
	Example: `  ghcrawler crawl --query "embedded systems" --min-stars 100 --output-json repos.json
  ghcrawler crawl --query firmware --language c --analyze --backend ollama --output-csv repos.csv
  GEMINI_API_KEY=... ghcrawler crawl --query rtos --analyze --backend gemini --output-json repos.json`,
	RunE: runCrawl,
}

func init() {
	flags := crawlCmd.Flags()
	flags.StringVar(&crawlGitHubToken, "github-token", "", "GitHub API token (env GITHUB_TOKEN)")
	flags.StringVarP(&crawlQuery, "query", "q", "", "search keywords (required)")
	flags.StringVar(&crawlLanguage, "language", "", "restrict to a primary language")
	flags.IntVar(&crawlMinStars, "min-stars", 10, "minimum repository stars")
	flags.IntVarP(&crawlMaxResults, "max-results", "n", 100, "maximum records to collect")
	flags.IntVar(&crawlMaxPages, "max-pages", 5, "maximum search pages to fetch")
	flags.StringVar(&crawlSort, "sort", "stars", "sort field: stars, forks or updated")
	flags.StringVar(&crawlOrder, "order", "desc", "sort order: asc or desc")
	flags.StringVar(&crawlOutputJSON, "output-json", "", "path for JSON output")
	flags.StringVar(&crawlOutputCSV, "output-csv", "", "path for CSV output")
	flags.BoolVar(&crawlAnalyze, "analyze", false, "enrich records with AI analysis")
	flags.StringVar(&crawlBackend, "backend", "", "analyzer backend: ollama or gemini")
	flags.StringVar(&crawlGeminiAPIKey, "gemini-api-key", "", "Gemini API key (env GEMINI_API_KEY)")
	flags.StringVar(&crawlOllamaURL, "ollama-url", "", "Ollama base URL (default http://localhost:11434)")
	flags.StringVar(&crawlOllamaModel, "ollama-model", "", "Ollama model (default codellama:7b)")
	flags.StringSliceVar(&crawlKeywords, "keywords", nil, "required keywords for relevance filtering")
	flags.StringSliceVar(&crawlExcluded, "exclude-keywords", nil, "keywords that drop a record")

	if err := crawlCmd.MarkFlagRequired("query"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if crawlOutputJSON == "" && crawlOutputCSV == "" {
		return fmt.Errorf("%w: pass --output-json and/or --output-csv", domain.ErrNoOutputConfigured)
	}

	store := loadConfigStore()
	applyConfigDefaults(cmd, store)

	token := crawlGitHubToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		logger.Warn("no GitHub token configured, the API rate limit will be severe")
	}

	query := domain.SearchQuery{
		Keywords: crawlQuery,
		Language: crawlLanguage,
		MinStars: crawlMinStars,
		Sort:     domain.SortField(crawlSort),
		Order:    domain.SortOrder(crawlOrder),
	}
	if err := query.Validate(); err != nil {
		return err
	}

	analyzer, err := buildAnalyzer(cmd)
	if err != nil {
		return err
	}
	if analyzer != nil {
		defer analyzer.Close()
	}

	client := github.NewClient(ctx, token)
	collector := services.NewCollector(client, client.RateLimiter())
	crawler := services.NewCrawler(collector, analyzer, export.New())

	result, err := crawler.Run(ctx, services.RunOptions{
		Query:      query,
		MaxResults: crawlMaxResults,
		MaxPages:   crawlMaxPages,
		Filter: domain.KeywordFilter{
			Required: crawlKeywords,
			Excluded: crawlExcluded,
		},
		JSONPath: crawlOutputJSON,
		CSVPath:  crawlOutputCSV,
	})
	if err != nil {
		return err
	}

	printSummary(cmd, result)
	return nil
}

// loadConfigStore opens ~/.ghcrawler/config.toml. Failure to read the
// store is not fatal; flags and built-in defaults still apply.
func loadConfigStore() driven.ConfigStore {
	store, err := configfile.NewConfigStore("")
	if err != nil {
		logger.Warn("config store unavailable: %v", err)
		return nil
	}
	return store
}

// applyConfigDefaults fills values the user did not pass on the command
// line from the config store. Flags always win.
func applyConfigDefaults(cmd *cobra.Command, store driven.ConfigStore) {
	if store == nil {
		return
	}
	flags := cmd.Flags()

	if !flags.Changed("min-stars") {
		if v := store.GetInt(configfile.KeyMinStars); v > 0 {
			crawlMinStars = v
		}
	}
	if !flags.Changed("max-results") {
		if v := store.GetInt(configfile.KeyMaxResults); v > 0 {
			crawlMaxResults = v
		}
	}
	if !flags.Changed("max-pages") {
		if v := store.GetInt(configfile.KeyMaxPages); v > 0 {
			crawlMaxPages = v
		}
	}
	if crawlBackend == "" {
		crawlBackend = store.GetString(configfile.KeyBackend)
	}
	if crawlOllamaURL == "" {
		crawlOllamaURL = store.GetString(configfile.KeyOllamaURL)
	}
	if crawlOllamaModel == "" {
		crawlOllamaModel = store.GetString(configfile.KeyOllamaModel)
	}
	if len(crawlKeywords) == 0 {
		crawlKeywords = store.GetStringSlice(configfile.KeyKeywords)
	}
	if len(crawlExcluded) == 0 {
		crawlExcluded = store.GetStringSlice(configfile.KeyExcluded)
	}
}

// buildAnalyzer constructs the enrichment backend selected by flags.
// Returns nil when --analyze is off.
func buildAnalyzer(cmd *cobra.Command) (driven.Analyzer, error) {
	if !crawlAnalyze {
		return nil, nil
	}

	promptStore, err := configfile.NewPromptStore("")
	if err != nil {
		logger.Warn("prompt store unavailable, using built-in prompts: %v", err)
		promptStore = nil
	}

	geminiKey := crawlGeminiAPIKey
	if geminiKey == "" {
		geminiKey = os.Getenv("GEMINI_API_KEY")
	}

	backend := crawlBackend
	if backend == "" {
		// No explicit choice: a Gemini key selects Gemini, otherwise
		// assume a local Ollama server.
		if geminiKey != "" {
			backend = backendGemini
		} else {
			backend = backendOllama
		}
	}

	switch backend {
	case backendOllama:
		analyzer := ollama.New(ollama.Config{
			BaseURL: crawlOllamaURL,
			Model:   crawlOllamaModel,
		})
		if promptStore != nil {
			analyzer.SetPromptStore(promptStore)
		}
		return analyzer, nil

	case backendGemini:
		if geminiKey == "" {
			return nil, errors.New("gemini API key is required: pass --gemini-api-key or set GEMINI_API_KEY")
		}
		var model string
		if store := loadConfigStore(); store != nil {
			model = store.GetString(configfile.KeyGeminiModel)
		}
		analyzer, err := gemini.New(cmd.Context(), gemini.Config{
			APIKey: geminiKey,
			Model:  model,
		})
		if err != nil {
			return nil, err
		}
		if promptStore != nil {
			analyzer.SetPromptStore(promptStore)
		}
		return analyzer, nil

	default:
		return nil, fmt.Errorf("%w: unknown backend %q (want ollama or gemini)", domain.ErrInvalidInput, backend)
	}
}

// printSummary writes a short human-readable report to stdout, topped
// by the best keyword matches when filtering was on.
func printSummary(cmd *cobra.Command, result *domain.CollectionResult) {
	cmd.Printf("Collected %d repositories (truncated=%t)\n", len(result.Records), result.Truncated)

	top := result.Records
	if len(top) > 10 {
		top = top[:10]
	}
	for i, repo := range top {
		cmd.Printf("%d. %s (%d stars)\n", i+1, repo.FullName, repo.Stars)
		if len(repo.MatchingKeywords) > 0 {
			cmd.Printf("   Matching keywords: %s\n", strings.Join(repo.MatchingKeywords, ", "))
		}
		if repo.Description != "" {
			cmd.Printf("   %s\n", repo.Description)
		}
		if repo.Analysis != nil {
			cmd.Printf("   AI assessment: %s\n", *repo.Analysis)
		}
	}
}
