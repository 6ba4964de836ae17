package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-pkgz/rest"
)

// updateProfileHandler updates username, bio and avatar of the caller.
// Accepts a multipart form, the avatar image goes under the "avatar"
// field and empty fields keep their current values.
func (s *Server) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.renderError(w, r, errors.New("authentication required"), http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.renderError(w, r, fmt.Errorf("failed to parse form: %w", err), http.StatusBadRequest)
		return
	}

	username := s.sanitizer.Sanitize(r.FormValue("username"))
	bio := s.sanitizer.Sanitize(r.FormValue("bio"))

	avatarURL := ""
	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		avatarURL, err = s.blobs.Save("avatars", header.Filename, file)
		if err != nil {
			s.renderError(w, r, fmt.Errorf("failed to store avatar: %w", err), http.StatusBadRequest)
			return
		}
	}

	updated, err := s.users.UpdateProfile(r.Context(), user.ID, username, bio, avatarURL)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to update profile: %w", err), errorCode(err, http.StatusInternalServerError))
		return
	}
	renderJSON(w, r, http.StatusOK, updated.Profile())
}

type toggleSaveRequest struct {
	RiceID int64 `json:"riceId"`
}

// toggleSaveHandler flips the rice in the caller's saved collection
func (s *Server) toggleSaveHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.renderError(w, r, errors.New("authentication required"), http.StatusUnauthorized)
		return
	}

	var req toggleSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.renderError(w, r, fmt.Errorf("failed to parse request: %w", err), http.StatusBadRequest)
		return
	}

	saved, err := s.users.ToggleSaved(r.Context(), user.ID, req.RiceID)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to toggle save: %w", err), errorCode(err, http.StatusInternalServerError))
		return
	}

	savedIDs, err := s.users.SavedRiceIDs(r.Context(), user.ID)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to get saved rices: %w", err), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"saved": saved, "savedRices": savedIDs})
}

// savedRicesHandler returns the caller's saved rices, most recently
// saved first
func (s *Server) savedRicesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.renderError(w, r, errors.New("authentication required"), http.StatusUnauthorized)
		return
	}

	rices, err := s.rices.GetSavedRices(r.Context(), user.ID)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to get saved rices: %w", err), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, rices)
}

// publicProfileHandler returns a user's public profile with their rices
func (s *Server) publicProfileHandler(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	user, err := s.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to get user: %w", err), errorCode(err, http.StatusInternalServerError))
		return
	}

	rices, err := s.rices.GetRicesByAuthor(r.Context(), user.ID)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to get user rices: %w", err), http.StatusInternalServerError)
		return
	}
	profile := user.Profile()
	profile.Email = "" // public view, no contact details
	renderJSON(w, r, http.StatusOK, rest.JSON{"user": profile, "rices": rices})
}
