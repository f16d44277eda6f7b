package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/jobbook/internal/metrics"
	"github.com/mmynk/jobbook/internal/models"
	"github.com/mmynk/jobbook/internal/storage"
)

// ClientInput carries the editable fields of a client as submitted by a form.
type ClientInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Notes   string
}

func (in ClientInput) apply(c *models.Client) {
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Email = strings.TrimSpace(in.Email)
	c.Address = strings.TrimSpace(in.Address)
	c.Notes = in.Notes
}

// ClientService implements the address book operations.
type ClientService struct {
	store   storage.ClientStore
	metrics *metrics.Metrics
}

// NewClientService creates a new ClientService with the given storage backend.
func NewClientService(store storage.ClientStore, m *metrics.Metrics) *ClientService {
	return &ClientService{store: store, metrics: m}
}

// List returns every client.
func (s *ClientService) List(ctx context.Context) ([]*models.Client, error) {
	return s.store.ListClients(ctx)
}

// Get returns the client with the given id.
func (s *ClientService) Get(ctx context.Context, id int64) (*models.Client, error) {
	return s.store.GetClient(ctx, id)
}

// Create validates and stores a new client.
func (s *ClientService) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	client := &models.Client{}
	in.apply(client)
	if err := client.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClient, err)
	}

	if err := s.store.CreateClient(ctx, client); err != nil {
		slog.Error("CreateClient failed", "error", err)
		return nil, err
	}

	s.metrics.ClientChanged("create")
	slog.Info("Client created", "client_id", client.ID)
	return client, nil
}

// Update applies the input to an existing client.
func (s *ClientService) Update(ctx context.Context, id int64, in ClientInput) (*models.Client, error) {
	client, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(client)
	if err := client.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClient, err)
	}

	if err := s.store.UpdateClient(ctx, client); err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Error("UpdateClient failed", "client_id", id, "error", err)
		}
		return nil, err
	}

	s.metrics.ClientChanged("update")
	slog.Info("Client updated", "client_id", id)
	return client, nil
}

// Delete removes a client. Unknown ids are ignored.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteClient(ctx, id); err != nil {
		slog.Error("DeleteClient failed", "client_id", id, "error", err)
		return err
	}
	s.metrics.ClientChanged("delete")
	slog.Info("Client deleted", "client_id", id)
	return nil
}
