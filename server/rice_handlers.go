package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-pkgz/rest"

	"github.com/ricehub/ricehub/pkg/domain"
)

// listRicesHandler returns rices filtered by search text, window manager
// and sort order
func (s *Server) listRicesHandler(w http.ResponseWriter, r *http.Request) {
	filter := domain.RiceFilter{
		Search:        r.URL.Query().Get("search"),
		WindowManager: r.URL.Query().Get("wm"),
		SortTop:       r.URL.Query().Get("sort") == "top",
	}

	rices, err := s.rices.ListRices(r.Context(), filter)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to list rices: %w", err), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, rices)
}

// getRiceHandler returns a single rice by ID
func (s *Server) getRiceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.renderError(w, r, errors.New("invalid rice id"), http.StatusBadRequest)
		return
	}

	rice, err := s.rices.GetRice(r.Context(), id)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to get rice: %w", err), errorCode(err, http.StatusInternalServerError))
		return
	}
	renderJSON(w, r, http.StatusOK, rice)
}

// createRiceHandler accepts a multipart form with the screenshot under
// the "image" field plus the rice metadata
func (s *Server) createRiceHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.renderError(w, r, errors.New("authentication required"), http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.renderError(w, r, fmt.Errorf("failed to parse form: %w", err), http.StatusBadRequest)
		return
	}

	title := s.sanitizer.Sanitize(r.FormValue("title"))
	if len(title) < 3 {
		s.renderError(w, r, errors.New("title must be at least 3 characters"), http.StatusBadRequest)
		return
	}

	windowManager := s.sanitizer.Sanitize(r.FormValue("window_manager"))
	distro := s.sanitizer.Sanitize(r.FormValue("distro"))
	if windowManager == "" || distro == "" {
		s.renderError(w, r, errors.New("window_manager and distro are required"), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.renderError(w, r, errors.New("screenshot image is required"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageURL, err := s.blobs.Save("rices", header.Filename, file)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to store image: %w", err), http.StatusBadRequest)
		return
	}

	rice := &domain.Rice{
		Title:       title,
		Description: s.sanitizer.Sanitize(r.FormValue("description")),
		ImageURL:    imageURL,
		AuthorID:    user.ID,
		Config: domain.RiceConfig{
			WindowManager: windowManager,
			Distro:        distro,
			Shell:         s.sanitizer.Sanitize(r.FormValue("shell")),
			DotfilesURL:   s.sanitizer.Sanitize(r.FormValue("dotfiles_url")),
			CodeSnippet:   r.FormValue("code_snippet"),
		},
	}

	if err := s.rices.CreateRice(r.Context(), rice); err != nil {
		s.renderError(w, r, fmt.Errorf("failed to create rice: %w", err), http.StatusInternalServerError)
		return
	}

	// read back so the response carries the populated author and like list
	created, err := s.rices.GetRice(r.Context(), rice.ID)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to load created rice: %w", err), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusCreated, created)
}

// toggleLikeHandler flips the caller's like on a rice. Adding a like
// notifies the rice author unless the caller likes their own rice.
func (s *Server) toggleLikeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.renderError(w, r, errors.New("authentication required"), http.StatusUnauthorized)
		return
	}

	riceID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.renderError(w, r, errors.New("invalid rice id"), http.StatusBadRequest)
		return
	}

	liked, likes, err := s.rices.ToggleLike(r.Context(), riceID, user.ID)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to toggle like: %w", err), errorCode(err, http.StatusInternalServerError))
		return
	}

	if liked {
		s.notifyRiceAuthor(r, riceID, user.ID, domain.NotificationLike)
	}

	renderJSON(w, r, http.StatusOK, rest.JSON{"isLiked": liked, "likes": likes})
}

// deleteRiceHandler removes a rice, only the author can delete
func (s *Server) deleteRiceHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.renderError(w, r, errors.New("authentication required"), http.StatusUnauthorized)
		return
	}

	riceID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.renderError(w, r, errors.New("invalid rice id"), http.StatusBadRequest)
		return
	}

	rice, err := s.rices.GetRice(r.Context(), riceID)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to get rice: %w", err), errorCode(err, http.StatusInternalServerError))
		return
	}

	if rice.AuthorID != user.ID {
		s.renderError(w, r, errors.New("you can delete only your own rices"), http.StatusUnauthorized)
		return
	}

	if err := s.rices.DeleteRice(r.Context(), riceID); err != nil {
		s.renderError(w, r, fmt.Errorf("failed to delete rice: %w", err), errorCode(err, http.StatusInternalServerError))
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"status": "deleted"})
}

// notifyRiceAuthor records a notification for the rice author. Failures
// are logged and never fail the primary operation, and self-actions
// produce no notification at all.
func (s *Server) notifyRiceAuthor(r *http.Request, riceID, senderID int64, kind domain.NotificationType) {
	rice, err := s.rices.GetRice(r.Context(), riceID)
	if err != nil {
		log.Printf("[WARN] can't load rice %d for notification: %v", riceID, err)
		return
	}
	if rice.AuthorID == senderID {
		return
	}

	n := &domain.Notification{
		RecipientID: rice.AuthorID,
		SenderID:    senderID,
		Type:        kind,
		RiceID:      riceID,
	}
	if err := s.notifications.CreateNotification(r.Context(), n); err != nil {
		log.Printf("[WARN] failed to create %s notification for rice %d: %v", kind, riceID, err)
	}
}
