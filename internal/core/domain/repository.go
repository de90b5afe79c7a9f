package domain

import "time"

// Repository is one collected GitHub repository record.
// Analysis is nil until enrichment runs; a failed enrichment leaves it nil.
type Repository struct {
	// ID is the GitHub repository ID, unique within one collection run.
	ID int64 `json:"id"`

	// Name is the short repository name.
	Name string `json:"name"`

	// FullName is the owner/name path.
	FullName string `json:"full_name"`

	// Description is the repository description. Empty when GitHub returns none.
	Description string `json:"description"`

	// HTMLURL is the browser URL of the repository.
	HTMLURL string `json:"html_url"`

	// Language is the primary language reported by GitHub.
	Language string `json:"language"`

	// Stars is the stargazer count.
	Stars int `json:"stars"`

	// Forks is the fork count.
	Forks int `json:"forks"`

	// Topics are the repository topics.
	Topics []string `json:"topics,omitempty"`

	// CreatedAt is the repository creation time.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the last update time.
	UpdatedAt time.Time `json:"updated_at"`

	// KeywordMatchCount is the number of required keywords matched
	// by the keyword filter. Zero when filtering is disabled.
	KeywordMatchCount int `json:"keyword_match_count,omitempty"`

	// MatchingKeywords lists the required keywords that matched.
	MatchingKeywords []string `json:"matching_keywords,omitempty"`

	// Analysis is the AI-generated assessment. Nil means enrichment
	// was disabled or unavailable for this record; it serialises as
	// JSON null and as an empty CSV field.
	Analysis *string `json:"analysis"`
}
