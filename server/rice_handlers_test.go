package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ricehub/ricehub/pkg/domain"
	"github.com/ricehub/ricehub/server/mocks"
)

func TestServer_createRice(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.register(t, "alice", "alice@example.com")

	t.Run("success", func(t *testing.T) {
		rice := e.createRice(t, cookie, "gruvbox hyprland", "hyprland")
		assert.NotZero(t, rice.ID)
		assert.Equal(t, "gruvbox hyprland", rice.Title)
		assert.Equal(t, "hyprland", rice.Config.WindowManager)
		assert.Contains(t, rice.ImageURL, "/static/rices/")
		require.NotNil(t, rice.Author)
		assert.Equal(t, "alice", rice.Author.Username)
		assert.Empty(t, rice.Likes)
	})

	t.Run("short title rejected", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("title", "ab"))
		require.NoError(t, mw.WriteField("window_manager", "i3"))
		require.NoError(t, mw.WriteField("distro", "arch"))
		fw, err := mw.CreateFormFile("image", "shot.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("png-bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req, err := http.NewRequest("POST", e.ts.URL+"/api/v1/rices", &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.AddCookie(cookie)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing image rejected", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("title", "valid title"))
		require.NoError(t, mw.WriteField("window_manager", "i3"))
		require.NoError(t, mw.WriteField("distro", "arch"))
		require.NoError(t, mw.Close())

		req, err := http.NewRequest("POST", e.ts.URL+"/api/v1/rices", &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.AddCookie(cookie)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("requires auth", func(t *testing.T) {
		resp := e.do(t, "POST", "/api/v1/rices", nil, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestServer_listRices(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.register(t, "alice", "alice@example.com")
	e.createRice(t, cookie, "nord sway setup", "sway")
	e.createRice(t, cookie, "gruvbox i3", "i3")
	e.createRice(t, cookie, "catppuccin sway", "sway")

	t.Run("all, newest first", func(t *testing.T) {
		var rices []domain.Rice
		resp := e.do(t, "GET", "/api/v1/rices", nil, nil, &rices)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, rices, 3)
		assert.Equal(t, "catppuccin sway", rices[0].Title)
	})

	t.Run("filter by window manager", func(t *testing.T) {
		var rices []domain.Rice
		e.do(t, "GET", "/api/v1/rices?wm=Sway", nil, nil, &rices)
		require.Len(t, rices, 2, "wm filter is case insensitive")
	})

	t.Run("search by title", func(t *testing.T) {
		var rices []domain.Rice
		e.do(t, "GET", "/api/v1/rices?search=gruvbox", nil, nil, &rices)
		require.Len(t, rices, 1)
		assert.Equal(t, "gruvbox i3", rices[0].Title)
	})

	t.Run("sort by top likes", func(t *testing.T) {
		var all []domain.Rice
		e.do(t, "GET", "/api/v1/rices", nil, nil, &all)
		oldest := all[len(all)-1]

		// like the oldest rice so top sort moves it first
		resp := e.do(t, "PUT", fmt.Sprintf("/api/v1/rices/%d/like", oldest.ID), cookie, nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var top []domain.Rice
		e.do(t, "GET", "/api/v1/rices?sort=top", nil, nil, &top)
		require.Len(t, top, 3)
		assert.Equal(t, oldest.ID, top[0].ID)
		assert.Equal(t, 1, top[0].LikesCount)
	})
}

func TestServer_toggleLike(t *testing.T) {
	e := newTestEnv(t)
	author := e.register(t, "alice", "alice@example.com")
	fan := e.register(t, "bob", "bob@example.com")
	rice := e.createRice(t, author, "tokyo night", "hyprland")

	bob, err := e.repos.User.GetUserByUsername(context.Background(), "bob")
	require.NoError(t, err)

	t.Run("like adds and notifies author", func(t *testing.T) {
		var res struct {
			Liked bool    `json:"isLiked"`
			Likes []int64 `json:"likes"`
		}
		resp := e.do(t, "PUT", fmt.Sprintf("/api/v1/rices/%d/like", rice.ID), fan, nil, &res)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, res.Liked)
		assert.Equal(t, []int64{bob.ID}, res.Likes)

		var notifications []domain.Notification
		e.do(t, "GET", "/api/v1/notifications", author, nil, &notifications)
		require.Len(t, notifications, 1)
		assert.Equal(t, domain.NotificationLike, notifications[0].Type)
		assert.Equal(t, "bob", notifications[0].Sender.Username)
	})

	t.Run("second toggle removes like", func(t *testing.T) {
		var res struct {
			Liked bool    `json:"isLiked"`
			Likes []int64 `json:"likes"`
		}
		e.do(t, "PUT", fmt.Sprintf("/api/v1/rices/%d/like", rice.ID), fan, nil, &res)
		assert.False(t, res.Liked)
		assert.Empty(t, res.Likes)

		// unlike produces no extra notification
		var notifications []domain.Notification
		e.do(t, "GET", "/api/v1/notifications", author, nil, &notifications)
		assert.Len(t, notifications, 1)
	})

	t.Run("liking own rice produces no notification", func(t *testing.T) {
		resp := e.do(t, "PUT", fmt.Sprintf("/api/v1/rices/%d/like", rice.ID), author, nil, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var notifications []domain.Notification
		e.do(t, "GET", "/api/v1/notifications", author, nil, &notifications)
		assert.Len(t, notifications, 1, "self-like adds nothing")
	})

	t.Run("unknown rice", func(t *testing.T) {
		resp := e.do(t, "PUT", "/api/v1/rices/9999/like", fan, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("requires auth", func(t *testing.T) {
		resp := e.do(t, "PUT", fmt.Sprintf("/api/v1/rices/%d/like", rice.ID), nil, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestServer_likeSurvivesNotificationFailure(t *testing.T) {
	e := newTestEnv(t)
	author := e.register(t, "alice", "alice@example.com")
	fan := e.register(t, "bob", "bob@example.com")
	rice := e.createRice(t, author, "rose pine", "river")

	failing := &mocks.NotificationStoreMock{
		CreateNotificationFunc: func(ctx context.Context, n *domain.Notification) error {
			return errors.New("notification store is down")
		},
	}
	e.srv.notifications = failing

	var res struct {
		Liked bool `json:"isLiked"`
	}
	resp := e.do(t, "PUT", fmt.Sprintf("/api/v1/rices/%d/like", rice.ID), fan, nil, &res)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "like succeeds even when notification fails")
	assert.True(t, res.Liked)
	assert.Len(t, failing.CreateNotificationCalls(), 1)
}

func TestServer_deleteRice(t *testing.T) {
	e := newTestEnv(t)
	author := e.register(t, "alice", "alice@example.com")
	other := e.register(t, "bob", "bob@example.com")
	rice := e.createRice(t, author, "dracula bspwm", "bspwm")

	t.Run("non-owner rejected", func(t *testing.T) {
		resp := e.do(t, "DELETE", fmt.Sprintf("/api/v1/rices/%d", rice.ID), other, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("owner deletes", func(t *testing.T) {
		resp := e.do(t, "DELETE", fmt.Sprintf("/api/v1/rices/%d", rice.ID), author, nil, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = e.do(t, "GET", fmt.Sprintf("/api/v1/rices/%d", rice.ID), nil, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("already gone", func(t *testing.T) {
		resp := e.do(t, "DELETE", fmt.Sprintf("/api/v1/rices/%d", rice.ID), author, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
