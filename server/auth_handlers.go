package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-pkgz/rest"

	"github.com/ricehub/ricehub/pkg/domain"
	"github.com/ricehub/ricehub/pkg/repository"
)

type ctxKey int

const userCtxKey ctxKey = iota

// userFrom extracts the authenticated user from the request context
func userFrom(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userCtxKey).(*domain.User)
	return u, ok
}

// requireAuth verifies the JWT cookie and loads the user into the request
// context. Missing or invalid credentials end the request with 401.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.auth.CookieName())
		if err != nil {
			s.renderError(w, r, errors.New("authentication required"), http.StatusUnauthorized)
			return
		}

		userID, err := s.auth.VerifyToken(cookie.Value)
		if err != nil {
			s.renderError(w, r, errors.New("invalid or expired token"), http.StatusUnauthorized)
			return
		}

		user, err := s.users.GetUser(r.Context(), userID)
		if err != nil {
			s.renderError(w, r, errors.New("user no longer exists"), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey, user)))
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerHandler creates a new account and signs the caller in
func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.renderError(w, r, fmt.Errorf("failed to parse request: %w", err), http.StatusBadRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		s.renderError(w, r, errors.New("username, email and password are required"), http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		s.renderError(w, r, errors.New("password must be at least 6 characters"), http.StatusBadRequest)
		return
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to hash password: %w", err), http.StatusInternalServerError)
		return
	}

	user := &domain.User{Username: req.Username, Email: req.Email, PasswordHash: hash}
	if err := s.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.renderError(w, r, errors.New("username or email already taken"), http.StatusBadRequest)
			return
		}
		s.renderError(w, r, fmt.Errorf("failed to create user: %w", err), http.StatusInternalServerError)
		return
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to issue token: %w", err), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, s.auth.AuthCookie(token))
	renderJSON(w, r, http.StatusCreated, user.Profile())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginHandler checks credentials and sets the auth cookie
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.renderError(w, r, fmt.Errorf("failed to parse request: %w", err), http.StatusBadRequest)
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		// same message for unknown email and bad password
		s.renderError(w, r, errors.New("invalid email or password"), http.StatusUnauthorized)
		return
	}

	if !s.auth.CheckPassword(user.PasswordHash, req.Password) {
		s.renderError(w, r, errors.New("invalid email or password"), http.StatusUnauthorized)
		return
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("failed to issue token: %w", err), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, s.auth.AuthCookie(token))
	renderJSON(w, r, http.StatusOK, user.Profile())
}

// logoutHandler clears the auth cookie
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.auth.ClearCookie())
	renderJSON(w, r, http.StatusOK, rest.JSON{"status": "ok"})
}

// checkAuthHandler returns the profile of the authenticated user
func (s *Server) checkAuthHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.renderError(w, r, errors.New("authentication required"), http.StatusUnauthorized)
		return
	}
	renderJSON(w, r, http.StatusOK, user.Profile())
}
