package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ricehub/ricehub/pkg/domain"
)

// GithubClient fetches top-starred dotfiles repositories from the GitHub
// search API
type GithubClient struct {
	baseURL string
	token   string
	perPage int
	client  *http.Client
}

// NewGithubClient creates a new GitHub search client. The token is optional
// and only raises rate limits.
func NewGithubClient(baseURL, token string, perPage int, timeout time.Duration) *GithubClient {
	return &GithubClient{
		baseURL: baseURL,
		token:   token,
		perPage: perPage,
		client:  &http.Client{Timeout: timeout},
	}
}

// githubSearchResponse is the subset of the search API response we consume
type githubSearchResponse struct {
	Items []struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		HTMLURL     string `json:"html_url"`
		Stars       int    `json:"stargazers_count"`
		Owner       struct {
			Login     string `json:"login"`
			AvatarURL string `json:"avatar_url"`
		} `json:"owner"`
	} `json:"items"`
}

// Name identifies the source in logs
func (c *GithubClient) Name() string { return string(domain.SourceGitHub) }

// Fetch returns up to perPage normalized repository items, requested sorted
// by stars. The cap is applied at the query level, not by truncation.
func (c *GithubClient) Fetch(ctx context.Context) ([]domain.ExternalItem, error) {
	query := url.Values{}
	query.Set("q", "topic:dotfiles topic:rice")
	query.Set("sort", "stars")
	query.Set("per_page", fmt.Sprintf("%d", c.perPage))

	reqURL := c.baseURL + "/search/repositories?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// GitHub requires a User-Agent
	req.Header.Set("User-Agent", "RiceHub/1.0")
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch github repositories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from github search", resp.StatusCode)
	}

	var searchResp githubSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode github response: %w", err)
	}

	items := make([]domain.ExternalItem, 0, len(searchResp.Items))
	for _, repo := range searchResp.Items {
		items = append(items, domain.ExternalItem{
			Source:      domain.SourceGitHub,
			ExternalID:  fmt.Sprintf("%d", repo.ID),
			Title:       repo.Name,
			Author:      repo.Owner.Login,
			URL:         repo.HTMLURL,
			Thumbnail:   repo.Owner.AvatarURL, // search results carry no images, use the owner's avatar
			Stats:       fmt.Sprintf("%d ★", repo.Stars),
			Description: repo.Description,
		})
	}
	return items, nil
}
