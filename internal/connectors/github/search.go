package github

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/ports/driven"
)

// Ensure the connector satisfies the collector's ports.
var (
	_ driven.PageFetcher = (*Client)(nil)
	_ driven.RateLimiter = (*RateLimiter)(nil)
)

// FetchPage issues one repository search call for the given page.
// Rate-limit waiting is the caller's concern; the client only records
// the quota state observed on each response.
func (c *Client) FetchPage(ctx context.Context, query domain.SearchQuery, page int) (*domain.PageResult, error) {
	opts := &gh.SearchOptions{
		Sort:  string(query.SortOrDefault()),
		Order: string(query.OrderOrDefault()),
		ListOptions: gh.ListOptions{
			Page:    page,
			PerPage: c.perPage,
		},
	}

	result, resp, err := c.gh.Search.Repositories(ctx, BuildSearchString(query), opts)
	if err != nil {
		return nil, wrapError(err, page)
	}
	c.updateRateLimitFromResponse(resp)

	pageResult := &domain.PageResult{
		Items:       make([]domain.Repository, 0, len(result.Repositories)),
		HasNextPage: resp.NextPage != 0,
	}
	if resp.Rate.Limit != 0 || resp.Rate.Remaining != 0 {
		pageResult.RateRemaining = resp.Rate.Remaining
		pageResult.RateResetAt = resp.Rate.Reset.Time
	}

	for _, repo := range result.Repositories {
		pageResult.Items = append(pageResult.Items, convertRepository(repo))
	}

	return pageResult, nil
}

// BuildSearchString assembles the GitHub search qualifier string:
// free-text keywords plus stars and language qualifiers.
func BuildSearchString(query domain.SearchQuery) string {
	var sb strings.Builder
	sb.WriteString(query.Keywords)
	fmt.Fprintf(&sb, " stars:>=%d", query.MinStars)
	if query.Language != "" {
		fmt.Fprintf(&sb, " language:%s", query.Language)
	}
	return sb.String()
}

// convertRepository maps a go-github repository onto the domain record.
// Missing fields take zero-value defaults; a missing description is an
// empty string.
func convertRepository(repo *gh.Repository) domain.Repository {
	return domain.Repository{
		ID:          repo.GetID(),
		Name:        repo.GetName(),
		FullName:    repo.GetFullName(),
		Description: repo.GetDescription(),
		HTMLURL:     repo.GetHTMLURL(),
		Language:    repo.GetLanguage(),
		Stars:       repo.GetStargazersCount(),
		Forks:       repo.GetForksCount(),
		Topics:      repo.Topics,
		CreatedAt:   repo.GetCreatedAt().Time,
		UpdatedAt:   repo.GetUpdatedAt().Time,
	}
}
