package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/jobbook/internal/auth"
	"github.com/mmynk/jobbook/internal/metrics"
)

// AuthService checks login attempts against the stored settings and mints
// session tokens.
type AuthService struct {
	settings *SettingsService
	sessions *auth.SessionManager
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(settings *SettingsService, sessions *auth.SessionManager, m *metrics.Metrics, logger *slog.Logger) *AuthService {
	return &AuthService{
		settings: settings,
		sessions: sessions,
		metrics:  m,
		logger:   logger,
	}
}

// Login verifies the credentials and returns a signed session token.
// Any mismatch, including an unconfigured login, yields auth.ErrInvalidCredentials.
// Settings are re-read first so credentials saved by set-credentials apply
// without a restart.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if err := s.settings.Reload(ctx); err != nil {
		s.logger.Warn("Using cached settings for login", "error", err)
	}

	if err := s.settings.Authenticator().Authenticate(username, password); err != nil {
		s.metrics.LoginAttempt(false)
		s.logger.Warn("Login failed")
		return "", auth.ErrInvalidCredentials
	}

	token, err := s.sessions.Generate()
	if err != nil {
		s.logger.Error("Failed to generate token", "error", err)
		return "", err
	}

	s.metrics.LoginAttempt(true)
	s.logger.Info("User logged in successfully", "username", username)
	return token, nil
}

// Sessions returns the session manager used to mint tokens.
func (s *AuthService) Sessions() *auth.SessionManager {
	return s.sessions
}
