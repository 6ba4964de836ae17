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

// YoutubeClient fetches popular ricing videos from the YouTube data API
type YoutubeClient struct {
	baseURL    string
	apiKey     string
	maxResults int
	client     *http.Client
}

// NewYoutubeClient creates a new YouTube search client
func NewYoutubeClient(baseURL, apiKey string, maxResults int, timeout time.Duration) *YoutubeClient {
	return &YoutubeClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		maxResults: maxResults,
		client:     &http.Client{Timeout: timeout},
	}
}

// youtubeSearchResponse is the subset of the search API response we consume
type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// Name identifies the source in logs
func (c *YoutubeClient) Name() string { return string(domain.SourceYouTube) }

// Fetch returns up to maxResults normalized video items, requested ordered
// by view count
func (c *YoutubeClient) Fetch(ctx context.Context) ([]domain.ExternalItem, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("q", "linux rice customization")
	query.Set("type", "video")
	query.Set("order", "viewCount")
	query.Set("maxResults", fmt.Sprintf("%d", c.maxResults))
	query.Set("key", c.apiKey)

	reqURL := c.baseURL + "/search?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch youtube videos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from youtube search", resp.StatusCode)
	}

	var searchResp youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode youtube response: %w", err)
	}

	items := make([]domain.ExternalItem, 0, len(searchResp.Items))
	for _, video := range searchResp.Items {
		items = append(items, domain.ExternalItem{
			Source:      domain.SourceYouTube,
			ExternalID:  video.ID.VideoID,
			Title:       video.Snippet.Title,
			Author:      video.Snippet.ChannelTitle,
			URL:         "https://www.youtube.com/watch?v=" + video.ID.VideoID,
			Thumbnail:   video.Snippet.Thumbnails.High.URL,
			Stats:       "Video",
			Description: video.Snippet.Description,
		})
	}
	return items, nil
}
