package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-pkgz/rest"

	"github.com/ricehub/ricehub/pkg/domain"
)

// listCommentsHandler returns all comments for a rice, newest first
func (s *Server) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
	riceID, err := strconv.ParseInt(r.PathValue("riceID"), 10, 64)
	if err != nil {
		s.renderError(w, r, errors.New("invalid rice id"), http.StatusBadRequest)
		return
	}

	comments, err := s.comments.GetCommentsByRice(r.Context(), riceID)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to list comments: %w", err), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, comments)
}

type addCommentRequest struct {
	RiceID int64  `json:"riceId"`
	Text   string `json:"text"`
}

// addCommentHandler creates a comment and notifies the rice author,
// unless the author comments on their own rice
func (s *Server) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.renderError(w, r, errors.New("authentication required"), http.StatusUnauthorized)
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.renderError(w, r, fmt.Errorf("failed to parse request: %w", err), http.StatusBadRequest)
		return
	}

	text := strings.TrimSpace(s.sanitizer.Sanitize(req.Text))
	if text == "" {
		s.renderError(w, r, errors.New("comment text is required"), http.StatusBadRequest)
		return
	}

	// verify the rice exists before inserting, 404 beats an FK error
	if _, err := s.rices.GetRice(r.Context(), req.RiceID); err != nil {
		s.renderError(w, r, fmt.Errorf("failed to get rice: %w", err), errorCode(err, http.StatusInternalServerError))
		return
	}

	comment := &domain.Comment{RiceID: req.RiceID, AuthorID: user.ID, Text: text}
	if err := s.comments.CreateComment(r.Context(), comment); err != nil {
		s.renderError(w, r, fmt.Errorf("failed to create comment: %w", err), http.StatusInternalServerError)
		return
	}

	s.notifyRiceAuthor(r, req.RiceID, user.ID, domain.NotificationComment)

	renderJSON(w, r, http.StatusCreated, comment)
}

// deleteCommentHandler removes a comment. Allowed for the comment author
// and for the author of the rice the comment is on.
func (s *Server) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.renderError(w, r, errors.New("authentication required"), http.StatusUnauthorized)
		return
	}

	commentID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.renderError(w, r, errors.New("invalid comment id"), http.StatusBadRequest)
		return
	}

	comment, err := s.comments.GetComment(r.Context(), commentID)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to get comment: %w", err), errorCode(err, http.StatusInternalServerError))
		return
	}

	allowed := comment.AuthorID == user.ID
	if !allowed {
		rice, err := s.rices.GetRice(r.Context(), comment.RiceID)
		if err == nil && rice.AuthorID == user.ID {
			allowed = true
		}
	}
	if !allowed {
		s.renderError(w, r, errors.New("you can delete only your own comments"), http.StatusUnauthorized)
		return
	}

	if err := s.comments.DeleteComment(r.Context(), commentID); err != nil {
		s.renderError(w, r, fmt.Errorf("failed to delete comment: %w", err), errorCode(err, http.StatusInternalServerError))
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"status": "deleted"})
}
