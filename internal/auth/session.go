package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "jobbook_session"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("session cookie required")
)

// Claims represents the JWT claims of a logged-in browser session.
type Claims struct {
	LoggedIn bool `json:"logged_in"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates session cookies.
// A browser is authenticated while it presents a valid signed token and
// anonymous otherwise; logging out expires the cookie.
type SessionManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	secureCookie  bool
}

// NewSessionManager creates a session manager signing tokens with secretKey.
// A tokenDuration of zero issues tokens without an expiry.
func NewSessionManager(secretKey []byte, tokenDuration time.Duration, secureCookie bool) *SessionManager {
	return &SessionManager{
		secretKey:     secretKey,
		tokenDuration: tokenDuration,
		secureCookie:  secureCookie,
	}
}

// GenerateSecret returns a random 32-byte signing key.
func GenerateSecret() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	return key, nil
}

// Generate creates a new signed session token.
func (m *SessionManager) Generate() (string, error) {
	now := time.Now()
	claims := &Claims{
		LoggedIn: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.tokenDuration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.tokenDuration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses and validates a session token, returning the claims if valid.
func (m *SessionManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return m.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.LoggedIn {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Issue starts an authenticated session by setting a fresh session cookie.
func (m *SessionManager) Issue(w http.ResponseWriter) (*Claims, error) {
	tokenString, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return m.SetCookie(w, tokenString)
}

// SetCookie validates tokenString and stores it in the session cookie.
func (m *SessionManager) SetCookie(w http.ResponseWriter, tokenString string) (*Claims, error) {
	claims, err := m.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	cookie := m.cookie(tokenString)
	if claims.ExpiresAt != nil {
		cookie.Expires = claims.ExpiresAt.Time
	}
	http.SetCookie(w, cookie)
	return claims, nil
}

// Authenticated reports whether the request carries a valid session.
func (m *SessionManager) Authenticated(r *http.Request) bool {
	_, err := m.Session(r)
	return err == nil
}

// Session returns the claims of the request's session cookie.
func (m *SessionManager) Session(r *http.Request) (*Claims, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return nil, ErrMissingToken
	}
	return m.Validate(c.Value)
}

// Clear ends the session by expiring the cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	cookie := m.cookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
}

func (m *SessionManager) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
