// Package storage provides abstractions for persistent data storage.
//
// Jobs and settings live in flat JSON files (see package jsonfile); the
// client address book lives in SQLite (see package sqlite).
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/jobbook/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// JobStore persists the job list as a whole.
// There is no incremental update: callers load, mutate, and save the full list.
type JobStore interface {
	// LoadJobs returns the stored list. A missing or malformed store yields
	// an empty list and a nil error.
	LoadJobs(ctx context.Context) ([]models.Job, error)

	// SaveJobs replaces the stored list.
	SaveJobs(ctx context.Context, jobs []models.Job) error
}

// SettingsStore persists the single settings record.
type SettingsStore interface {
	// LoadSettings returns the stored record, or models.DefaultSettings()
	// when the store is missing or malformed.
	LoadSettings(ctx context.Context) (models.Settings, error)

	// SaveSettings replaces the stored record.
	SaveSettings(ctx context.Context, settings models.Settings) error
}

// ClientStore defines the address book operations.
type ClientStore interface {
	// ListClients returns every client ordered by id.
	ListClients(ctx context.Context) ([]*models.Client, error)

	// GetClient returns ErrNotFound if no client has the given id.
	GetClient(ctx context.Context, id int64) (*models.Client, error)

	// CreateClient inserts the client and populates client.ID.
	CreateClient(ctx context.Context, client *models.Client) error

	// UpdateClient overwrites every column. Returns ErrNotFound if the row is gone.
	UpdateClient(ctx context.Context, client *models.Client) error

	// DeleteClient removes the client. Deleting a missing id is not an error.
	DeleteClient(ctx context.Context, id int64) error

	// Close releases any resources held by the store.
	Close() error
}
