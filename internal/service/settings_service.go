package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmynk/jobbook/internal/auth"
	"github.com/mmynk/jobbook/internal/models"
	"github.com/mmynk/jobbook/internal/storage"
)

// SettingsInput is a full settings submission. An empty LoginPassword keeps
// the current password.
type SettingsInput struct {
	BusinessName  string
	ContactEmail  string
	LoginUsername string
	LoginPassword string
}

// SettingsService owns the in-memory copy of the settings record.
// The copy is loaded at start-up, refreshed by Reload and replaced after
// every successful save. Update merges onto the record on disk, so changes
// made by another process (set-credentials) are not overwritten.
type SettingsService struct {
	store storage.SettingsStore

	mu      sync.RWMutex
	current models.Settings
}

// NewSettingsService loads the persisted settings.
func NewSettingsService(ctx context.Context, store storage.SettingsStore) (*SettingsService, error) {
	settings, err := store.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &SettingsService{store: store, current: settings}, nil
}

// Current returns a copy of the cached settings.
func (s *SettingsService) Current() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload replaces the cached copy with the record on disk.
func (s *SettingsService) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	s.current = settings
	return nil
}

// Update merges the input into the stored record, persists the whole
// record and refreshes the cache. The cache is left untouched if saving fails.
func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.store.LoadSettings(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	next.BusinessName = in.BusinessName
	next.ContactEmail = in.ContactEmail
	next.LoginUsername = strings.TrimSpace(in.LoginUsername)

	if in.LoginPassword != "" {
		hashed, err := auth.HashPassword(in.LoginPassword)
		if err != nil {
			return models.Settings{}, err
		}
		next.LoginPassword = hashed
	}

	if err := s.store.SaveSettings(ctx, next); err != nil {
		return models.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	s.current = next

	slog.Info("Settings updated", "business_name", next.BusinessName, "login_username", next.LoginUsername)
	return next, nil
}

// SetCredentials stores a new login username and password, keeping the
// other fields.
func (s *SettingsService) SetCredentials(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username must not be empty")
	}
	if password == "" {
		return auth.ErrEmptyPassword
	}

	if err := s.Reload(ctx); err != nil {
		return err
	}
	current := s.Current()
	_, err := s.Update(ctx, SettingsInput{
		BusinessName:  current.BusinessName,
		ContactEmail:  current.ContactEmail,
		LoginUsername: username,
		LoginPassword: password,
	})
	return err
}

// Authenticator returns an authenticator for the current credentials.
func (s *SettingsService) Authenticator() *auth.CredentialAuthenticator {
	current := s.Current()
	return auth.NewCredentialAuthenticator(current.LoginUsername, current.LoginPassword)
}
