package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyPassword      = errors.New("password must not be empty")
)

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// IsHashed reports whether stored looks like a bcrypt hash.
func IsHashed(stored string) bool {
	if !strings.HasPrefix(stored, "$2") {
		return false
	}
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// VerifyPassword checks password against a stored value. Stored values that
// are not bcrypt hashes are settings written before hashing was introduced
// and are compared as plaintext in constant time.
func VerifyPassword(password, stored string) bool {
	if stored == "" {
		return false
	}
	if IsHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

// CredentialAuthenticator checks a submitted username and password against
// the single configured login.
type CredentialAuthenticator struct {
	username string
	password string
}

// NewCredentialAuthenticator creates an authenticator for the stored
// username and password (hash or legacy plaintext).
func NewCredentialAuthenticator(username, storedPassword string) *CredentialAuthenticator {
	return &CredentialAuthenticator{username: username, password: storedPassword}
}

// Authenticate returns ErrInvalidCredentials unless both values match.
// An unconfigured login never matches.
func (a *CredentialAuthenticator) Authenticate(username, password string) error {
	if a.username == "" || a.password == "" {
		return ErrInvalidCredentials
	}
	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passMatch := VerifyPassword(password, a.password)
	if !userMatch || !passMatch {
		return ErrInvalidCredentials
	}
	return nil
}
