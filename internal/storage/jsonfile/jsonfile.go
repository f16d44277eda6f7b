// Package jsonfile stores the job list and the settings record as
// pretty-printed JSON files in a data directory.
//
// Every save rewrites the whole file through a temporary file and a rename,
// so a crash mid-write leaves either the old or the new content. There is no
// file locking: two concurrent load-mutate-save cycles can still lose one of
// the updates.
//
// A file that loads only partly (or not at all) is copied to
// <name>.<UTC timestamp>.backup before it is first overwritten.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mmynk/jobbook/internal/storage"
)

const (
	// JobsFile is the job list file name inside the data directory.
	JobsFile = "jobs.json"
	// SettingsFile is the settings file name inside the data directory.
	SettingsFile = "settings.json"

	tmpSuffix       = ".tmp"
	backupSuffix    = ".backup"
	backupStamp     = "20060102T150405.000000000"
	filePermissions = 0o644
	indent          = "    "
)

// Ensure FileStore implements the storage interfaces.
var (
	_ storage.JobStore      = (*FileStore)(nil)
	_ storage.SettingsStore = (*FileStore)(nil)
)

// FileStore implements storage.JobStore and storage.SettingsStore on top of
// two JSON files.
type FileStore struct {
	jobsPath     string
	settingsPath string
}

// New creates a FileStore rooted at dir, creating the directory if needed.
func New(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{
		jobsPath:     filepath.Join(dir, JobsFile),
		settingsPath: filepath.Join(dir, SettingsFile),
	}, nil
}

// JobsPath returns the location of the job list file.
func (s *FileStore) JobsPath() string { return s.jobsPath }

// SettingsPath returns the location of the settings file.
func (s *FileStore) SettingsPath() string { return s.settingsPath }

// readFile returns the file content, or nil if it cannot be read.
// Unreadable files are treated like missing ones.
func readFile(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read data file, using defaults", "path", path, "error", err)
		}
		return nil
	}
	return data
}

// writeJSON marshals v with a four-space indent and replaces path atomically.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tmp := path + tmpSuffix
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// backupFile writes data next to path under a timestamped backup name.
func backupFile(path string, data []byte) error {
	backup := path + "." + time.Now().UTC().Format(backupStamp) + backupSuffix
	if err := os.WriteFile(backup, data, filePermissions); err != nil {
		return fmt.Errorf("failed to back up %s: %w", filepath.Base(path), err)
	}
	slog.Warn("Backed up unreadable data file before overwriting it", "path", path, "backup", backup)
	return nil
}

func isJSONArray(data []byte) bool {
	return firstByte(data) == '['
}

func isJSONObject(data []byte) bool {
	return firstByte(data) == '{'
}

func firstByte(data []byte) byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
