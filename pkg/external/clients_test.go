package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ricehub/ricehub/pkg/domain"
)

func TestGithubClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/repositories", r.URL.Path)
		assert.Equal(t, "topic:dotfiles topic:rice", r.URL.Query().Get("q"))
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))
		assert.Equal(t, "6", r.URL.Query().Get("per_page"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [
			{"id": 101, "name": "dotfiles", "description": "my rice",
			 "html_url": "https://github.com/alice/dotfiles", "stargazers_count": 1200,
			 "owner": {"login": "alice", "avatar_url": "https://avatars.example.com/alice"}}
		]}`))
	}))
	defer srv.Close()

	client := NewGithubClient(srv.URL, "test-token", 6, time.Second)
	items, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, domain.SourceGitHub, items[0].Source)
	assert.Equal(t, "101", items[0].ExternalID)
	assert.Equal(t, "dotfiles", items[0].Title)
	assert.Equal(t, "alice", items[0].Author)
	assert.Equal(t, "https://github.com/alice/dotfiles", items[0].URL)
	assert.Equal(t, "https://avatars.example.com/alice", items[0].Thumbnail)
	assert.Equal(t, "1200 ★", items[0].Stats)
	assert.Equal(t, "my rice", items[0].Description)
}

func TestGithubClient_NoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	client := NewGithubClient(srv.URL, "", 6, time.Second)
	items, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGithubClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden) // rate limited
	}))
	defer srv.Close()

	client := NewGithubClient(srv.URL, "", 6, time.Second)
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code 403")
}

func TestYoutubeClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "snippet", r.URL.Query().Get("part"))
		assert.Equal(t, "linux rice customization", r.URL.Query().Get("q"))
		assert.Equal(t, "video", r.URL.Query().Get("type"))
		assert.Equal(t, "viewCount", r.URL.Query().Get("order"))
		assert.Equal(t, "6", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "yt-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [
			{"id": {"videoId": "abc123"},
			 "snippet": {"title": "I riced Arch for 30 days", "description": "a journey",
			   "channelTitle": "LinuxTube",
			   "thumbnails": {"high": {"url": "https://i.ytimg.example.com/abc123/hq.jpg"}}}}
		]}`))
	}))
	defer srv.Close()

	client := NewYoutubeClient(srv.URL, "yt-key", 6, time.Second)
	items, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, domain.SourceYouTube, items[0].Source)
	assert.Equal(t, "abc123", items[0].ExternalID)
	assert.Equal(t, "I riced Arch for 30 days", items[0].Title)
	assert.Equal(t, "LinuxTube", items[0].Author)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", items[0].URL)
	assert.Equal(t, "https://i.ytimg.example.com/abc123/hq.jpg", items[0].Thumbnail)
	assert.Equal(t, "Video", items[0].Stats)
}

func TestYoutubeClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewYoutubeClient(srv.URL, "bad-key", 6, time.Second)
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code 400")
}
