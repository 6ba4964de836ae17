package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-pkgz/rest"
)

// listNotificationsHandler returns the caller's notifications, newest first
func (s *Server) listNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.renderError(w, r, errors.New("authentication required"), http.StatusUnauthorized)
		return
	}

	notifications, err := s.notifications.GetByRecipient(r.Context(), user.ID)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to list notifications: %w", err), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, notifications)
}

// markNotificationsReadHandler marks all of the caller's notifications read
func (s *Server) markNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.renderError(w, r, errors.New("authentication required"), http.StatusUnauthorized)
		return
	}

	if err := s.notifications.MarkAllRead(r.Context(), user.ID); err != nil {
		s.renderError(w, r, fmt.Errorf("failed to mark notifications read: %w", err), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"status": "ok"})
}
