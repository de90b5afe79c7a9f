package domain

import (
	"sort"
	"strings"
)

// KeywordFilter narrows collected records to those matching required
// keywords while dropping records matching any excluded keyword.
// Matching looks at the repository name, description and topics,
// case-insensitively. An empty Required list disables filtering.
type KeywordFilter struct {
	Required []string
	Excluded []string
}

// Enabled reports whether the filter does anything.
func (f KeywordFilter) Enabled() bool {
	return len(f.Required) > 0 || len(f.Excluded) > 0
}

// Apply filters records and annotates survivors with their keyword
// match count and the keywords that matched. Survivors are sorted by
// match count, highest first; ties keep discovery order.
func (f KeywordFilter) Apply(records []Repository) []Repository {
	if !f.Enabled() {
		return records
	}

	filtered := make([]Repository, 0, len(records))
	for _, record := range records {
		haystack := searchText(record)

		if f.excluded(haystack) {
			continue
		}

		matches := f.matched(haystack)
		if len(f.Required) > 0 && len(matches) == 0 {
			continue
		}

		record.KeywordMatchCount = len(matches)
		record.MatchingKeywords = matches
		filtered = append(filtered, record)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].KeywordMatchCount > filtered[j].KeywordMatchCount
	})
	return filtered
}

func (f KeywordFilter) excluded(haystack string) bool {
	for _, keyword := range f.Excluded {
		if keyword != "" && strings.Contains(haystack, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func (f KeywordFilter) matched(haystack string) []string {
	var matches []string
	for _, keyword := range f.Required {
		if keyword == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			matches = append(matches, keyword)
		}
	}
	return matches
}

func searchText(record Repository) string {
	parts := []string{strings.ToLower(record.Name), strings.ToLower(record.Description)}
	for _, topic := range record.Topics {
		parts = append(parts, strings.ToLower(topic))
	}
	return strings.Join(parts, " ")
}
