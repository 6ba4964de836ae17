package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Service issues and verifies the signed expiring tokens carried in the
// auth cookie, and hashes passwords
type Service struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

// Config holds token and cookie settings for the auth service
type Config struct {
	Secret     string
	TokenTTL   time.Duration
	CookieName string
	Secure     bool
}

// NewService creates an auth service
func NewService(cfg Config) *Service {
	return &Service{
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TokenTTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
	}
}

// HashPassword hashes a plaintext password with bcrypt
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the hash
func (s *Service) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken creates a signed token for the user, expiring after the
// configured TTL
func (s *Service) IssueToken(userID int64) (string, error) {
	now := time.Now()
	token, err := jwt.NewBuilder().
		Subject(strconv.FormatInt(userID, 10)).
		IssuedAt(now).
		Expiration(now.Add(s.ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, s.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return string(signed), nil
}

// VerifyToken validates the signature and expiry of a token and returns the
// user id it was issued for
func (s *Service) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.Parse([]byte(tokenString), jwt.WithKey(jwa.HS256, s.secret), jwt.WithValidate(true))
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}

	userID, err := strconv.ParseInt(token.Subject(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject: %w", err)
	}
	return userID, nil
}

// CookieName returns the name of the auth cookie
func (s *Service) CookieName() string {
	return s.cookieName
}

// AuthCookie wraps a signed token into an httpOnly cookie. SameSite is Lax
// by default and Strict when the service runs in secure (production) mode,
// matching the cookie the browser client expects.
func (s *Service) AuthCookie(token string) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if s.secure {
		sameSite = http.SameSiteStrictMode
	}
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: sameSite,
		MaxAge:   int(s.ttl.Seconds()),
	}
}

// ClearCookie returns an expired empty cookie that logs the client out
func (s *Service) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	}
}
