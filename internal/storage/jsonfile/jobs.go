package jsonfile

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mmynk/jobbook/internal/models"
)

// LoadJobs reads the job list. A missing file, invalid JSON, or a top-level
// value that is not an array all yield an empty list and a nil error.
// Entries that cannot be read as a job are skipped; the rest are kept.
func (s *FileStore) LoadJobs(ctx context.Context) ([]models.Job, error) {
	data := readFile(s.jobsPath)
	if data == nil {
		return []models.Job{}, nil
	}
	jobs, _ := decodeJobs(s.jobsPath, data)
	return jobs, nil
}

// SaveJobs overwrites the job list file with the full list. If the current
// file could not be read back completely it is copied to a backup first.
func (s *FileStore) SaveJobs(ctx context.Context, jobs []models.Job) error {
	if jobs == nil {
		jobs = []models.Job{}
	}
	if data := readFile(s.jobsPath); data != nil {
		if _, complete := decodeJobs(s.jobsPath, data); !complete {
			if err := backupFile(s.jobsPath, data); err != nil {
				return err
			}
		}
	}
	return writeJSON(s.jobsPath, jobs)
}

// decodeJobs returns the readable jobs in data and whether every entry was
// read. Whitespace-only content counts as a complete empty list.
func decodeJobs(path string, data []byte) ([]models.Job, bool) {
	jobs := []models.Job{}
	if firstByte(data) == 0 {
		return jobs, true
	}
	if !isJSONArray(data) {
		slog.Warn("Jobs file is not a list, starting empty", "path", path)
		return jobs, false
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("Jobs file is malformed, starting empty", "path", path, "error", err)
		return jobs, false
	}

	complete := true
	for i, entry := range entries {
		var job models.Job
		if err := json.Unmarshal(entry, &job); err != nil {
			slog.Warn("Skipping unreadable job entry", "path", path, "index", i, "error", err)
			complete = false
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, complete
}
