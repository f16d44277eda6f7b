package service

import (
	"errors"

	"github.com/mmynk/jobbook/internal/storage"
)

// ErrNotFound is returned when a job or client does not exist.
var ErrNotFound = storage.ErrNotFound

// ErrInvalidClient is returned when client input fails validation.
var ErrInvalidClient = errors.New("invalid client")
