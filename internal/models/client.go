package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Column limits of the clients table.
const (
	MaxClientNameLen    = 100
	MaxClientPhoneLen   = 20
	MaxClientEmailLen   = 100
	MaxClientAddressLen = 200
)

// ErrClientNameRequired is returned by Validate when the name is blank.
var ErrClientNameRequired = errors.New("client name is required")

// Client is a contact record in the address book.
type Client struct {
	// ID is the auto-assigned primary key.
	ID int64

	Name    string
	Phone   string
	Email   string
	Address string

	// Notes is unbounded free text.
	Notes string
}

// Validate checks the required name and the column length limits.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrClientNameRequired
	}
	limits := []struct {
		field string
		value string
		max   int
	}{
		{"name", c.Name, MaxClientNameLen},
		{"phone", c.Phone, MaxClientPhoneLen},
		{"email", c.Email, MaxClientEmailLen},
		{"address", c.Address, MaxClientAddressLen},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return fmt.Errorf("client %s exceeds %d characters", l.field, l.max)
		}
	}
	return nil
}
