package jsonfile

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mmynk/jobbook/internal/models"
)

// LoadSettings reads the settings record, falling back to
// models.DefaultSettings() when the file is missing or unparsable.
func (s *FileStore) LoadSettings(ctx context.Context) (models.Settings, error) {
	data := readFile(s.settingsPath)
	if data == nil {
		return models.DefaultSettings(), nil
	}
	settings, _ := decodeSettings(s.settingsPath, data)
	return settings, nil
}

// SaveSettings overwrites the settings file with the full record. An
// unparsable current file is copied to a backup first.
func (s *FileStore) SaveSettings(ctx context.Context, settings models.Settings) error {
	if data := readFile(s.settingsPath); data != nil {
		if _, ok := decodeSettings(s.settingsPath, data); !ok {
			if err := backupFile(s.settingsPath, data); err != nil {
				return err
			}
		}
	}
	return writeJSON(s.settingsPath, settings)
}

func decodeSettings(path string, data []byte) (models.Settings, bool) {
	if firstByte(data) == 0 {
		return models.DefaultSettings(), true
	}
	if !isJSONObject(data) {
		slog.Warn("Settings file is not an object, using defaults", "path", path)
		return models.DefaultSettings(), false
	}

	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		slog.Warn("Settings file is malformed, using defaults", "path", path, "error", err)
		return models.DefaultSettings(), false
	}
	return settings, true
}
