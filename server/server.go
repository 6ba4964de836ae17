package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/microcosm-cc/bluemonday"

	"github.com/ricehub/ricehub/pkg/domain"
	"github.com/ricehub/ricehub/pkg/repository"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/external.go -pkg mocks -skip-ensure -fmt goimports . ExternalProvider
//go:generate moq -out mocks/notifications.go -pkg mocks -skip-ensure -fmt goimports . NotificationStore

// Server represents HTTP server instance
type Server struct {
	config        ConfigProvider
	users         UserStore
	rices         RiceStore
	comments      CommentStore
	notifications NotificationStore
	auth          AuthService
	blobs         BlobStore
	external      ExternalProvider
	version       string
	debug         bool

	sanitizer *bluemonday.Policy
	maxUpload int64

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// UserStore interface for user operations
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, username, bio, avatar string) (*domain.User, error)
	ToggleSaved(ctx context.Context, userID, riceID int64) (bool, error)
	SavedRiceIDs(ctx context.Context, userID int64) ([]int64, error)
}

// RiceStore interface for rice operations
type RiceStore interface {
	CreateRice(ctx context.Context, rice *domain.Rice) error
	GetRice(ctx context.Context, id int64) (*domain.Rice, error)
	ListRices(ctx context.Context, filter domain.RiceFilter) ([]*domain.Rice, error)
	GetRicesByAuthor(ctx context.Context, authorID int64) ([]*domain.Rice, error)
	GetSavedRices(ctx context.Context, userID int64) ([]*domain.Rice, error)
	ToggleLike(ctx context.Context, riceID, userID int64) (liked bool, likes []int64, err error)
	DeleteRice(ctx context.Context, id int64) error
}

// CommentStore interface for comment operations
type CommentStore interface {
	CreateComment(ctx context.Context, comment *domain.Comment) error
	GetComment(ctx context.Context, id int64) (*domain.Comment, error)
	GetCommentsByRice(ctx context.Context, riceID int64) ([]*domain.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// NotificationStore interface for notification operations
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *domain.Notification) error
	GetByRecipient(ctx context.Context, recipientID int64) ([]*domain.Notification, error)
	MarkAllRead(ctx context.Context, recipientID int64) error
}

// AuthService issues and checks credentials
type AuthService interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) bool
	IssueToken(userID int64) (string, error)
	VerifyToken(token string) (int64, error)
	CookieName() string
	AuthCookie(token string) *http.Cookie
	ClearCookie() *http.Cookie
}

// BlobStore stores uploaded images and serves them back
type BlobStore interface {
	Save(folder, origName string, r io.Reader) (string, error)
	Handler() http.Handler
	BaseURL() string
}

// ExternalProvider serves aggregated third-party content
type ExternalProvider interface {
	Items(ctx context.Context) ([]domain.ExternalItem, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Deps bundles the collaborators a Server needs
type Deps struct {
	Config        ConfigProvider
	Users         UserStore
	Rices         RiceStore
	Comments      CommentStore
	Notifications NotificationStore
	Auth          AuthService
	Blobs         BlobStore
	External      ExternalProvider
	MaxUpload     int64
	Version       string
	Debug         bool
}

// New initializes a new server instance
func New(deps Deps) *Server {
	if deps.MaxUpload == 0 {
		deps.MaxUpload = 10 * 1024 * 1024
	}

	s := &Server{
		config:        deps.Config,
		users:         deps.Users,
		rices:         deps.Rices,
		comments:      deps.Comments,
		notifications: deps.Notifications,
		auth:          deps.Auth,
		blobs:         deps.Blobs,
		external:      deps.External,
		version:       deps.Version,
		debug:         deps.Debug,
		sanitizer:     bluemonday.StrictPolicy(),
		maxUpload:     deps.MaxUpload,
		router:        routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("ricehub", "ricehub", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(s.maxUpload + 1024*1024)) // image upload plus form overhead
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)

		r.HandleFunc("POST /auth/register", s.registerHandler)
		r.HandleFunc("POST /auth/login", s.loginHandler)
		r.HandleFunc("POST /auth/logout", s.logoutHandler)
		r.With(s.requireAuth).HandleFunc("GET /auth/check", s.checkAuthHandler)

		r.HandleFunc("GET /rices", s.listRicesHandler)
		r.HandleFunc("GET /rices/{id}", s.getRiceHandler)
		r.With(s.requireAuth).HandleFunc("POST /rices", s.createRiceHandler)
		r.With(s.requireAuth).HandleFunc("PUT /rices/{id}/like", s.toggleLikeHandler)
		r.With(s.requireAuth).HandleFunc("DELETE /rices/{id}", s.deleteRiceHandler)

		r.HandleFunc("GET /comments/{riceID}", s.listCommentsHandler)
		r.With(s.requireAuth).HandleFunc("POST /comments", s.addCommentHandler)
		r.With(s.requireAuth).HandleFunc("DELETE /comments/{id}", s.deleteCommentHandler)

		r.With(s.requireAuth).HandleFunc("GET /notifications", s.listNotificationsHandler)
		r.With(s.requireAuth).HandleFunc("PUT /notifications/read", s.markNotificationsReadHandler)

		r.With(s.requireAuth).HandleFunc("PUT /users/profile", s.updateProfileHandler)
		r.With(s.requireAuth).HandleFunc("PUT /users/save", s.toggleSaveHandler)
		r.With(s.requireAuth).HandleFunc("GET /users/saved", s.savedRicesHandler)
		r.HandleFunc("GET /users/{username}", s.publicProfileHandler)

		r.HandleFunc("GET /external", s.externalHandler)
	})

	// uploaded images
	s.router.Handle(s.blobs.BaseURL()+"/", s.blobs.Handler())
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// errorResponse is the error envelope all endpoints share
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// renderError sends error response as JSON. The stack is attached only in
// debug mode, production deployments never expose it.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}

	resp := errorResponse{Status: "error", Message: errMsg}
	if s.debug {
		resp.Stack = string(debug.Stack())
	}
	renderJSON(w, r, code, resp)
}

// errorCode maps storage sentinel errors to HTTP status codes
func errorCode(err error, fallback int) int {
	if errors.Is(err, repository.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, repository.ErrAlreadyExists) {
		return http.StatusBadRequest
	}
	return fallback
}
