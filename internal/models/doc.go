// Package models defines the core domain models for Jobbook.
//
// # Models
//
//   - Job: an appointment on the schedule, kept in a JSON list
//   - Client: an address book entry, stored in SQLite
//   - Settings: the single branding and login record, kept in a JSON object
//
// # Identifiers
//
// Job ids are small integers derived from the list itself (see NextJobID).
// Client ids come from the SQLite primary key.
package models
