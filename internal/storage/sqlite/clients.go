package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/jobbook/internal/models"
	"github.com/mmynk/jobbook/internal/storage"
)

const clientColumns = "id, name, phone, email, address, notes"

// ListClients returns every client ordered by id.
func (s *SQLiteStore) ListClients(ctx context.Context) ([]*models.Client, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []*models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	return clients, nil
}

// GetClient retrieves a client by primary key.
func (s *SQLiteStore) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE id = ?", id)
	client, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// CreateClient inserts a new client and sets its ID.
func (s *SQLiteStore) CreateClient(ctx context.Context, client *models.Client) error {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO clients (name, phone, email, address, notes) VALUES (?, ?, ?, ?, ?)",
		client.Name, nullable(client.Phone), nullable(client.Email), nullable(client.Address), nullable(client.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read client id: %w", err)
	}
	client.ID = id

	return nil
}

// UpdateClient overwrites all columns of an existing client.
func (s *SQLiteStore) UpdateClient(ctx context.Context, client *models.Client) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE clients SET name = ?, phone = ?, email = ?, address = ?, notes = ? WHERE id = ?",
		client.Name, nullable(client.Phone), nullable(client.Email), nullable(client.Address), nullable(client.Notes),
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("client %d: %w", client.ID, storage.ErrNotFound)
	}

	return nil
}

// DeleteClient removes a client by ID. Missing ids are ignored.
func (s *SQLiteStore) DeleteClient(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*models.Client, error) {
	client := &models.Client{}
	var phone, email, address, notes sql.NullString
	if err := row.Scan(&client.ID, &client.Name, &phone, &email, &address, &notes); err != nil {
		return nil, err
	}
	client.Phone = phone.String
	client.Email = email.String
	client.Address = address.String
	client.Notes = notes.String
	return client, nil
}

// nullable stores empty optional fields as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
