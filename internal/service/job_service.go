package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/jobbook/internal/metrics"
	"github.com/mmynk/jobbook/internal/models"
	"github.com/mmynk/jobbook/internal/storage"
)

// JobInput carries the editable fields of a job as submitted by a form.
type JobInput struct {
	Customer    string
	Description string
	Date        string
	Time        string
}

// JobService implements the schedule operations.
//
// Every call loads the full list from the store, changes it and saves it
// back; nothing is cached between calls. Two overlapping mutations can
// therefore overwrite each other (last writer wins).
type JobService struct {
	store   storage.JobStore
	metrics *metrics.Metrics
}

// NewJobService creates a new JobService with the given storage backend.
func NewJobService(store storage.JobStore, m *metrics.Metrics) *JobService {
	return &JobService{store: store, metrics: m}
}

// List returns all jobs in stored order.
func (s *JobService) List(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.store.LoadJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
	return jobs, nil
}

// Create appends a job. When the customer or date is empty nothing is
// stored and created is false.
func (s *JobService) Create(ctx context.Context, in JobInput) (job models.Job, created bool, err error) {
	if in.Customer == "" || in.Date == "" {
		slog.Debug("Job not created, customer or date missing")
		return models.Job{}, false, nil
	}

	jobs, err := s.List(ctx)
	if err != nil {
		return models.Job{}, false, err
	}

	job = models.Job{
		ID:          models.NextJobID(jobs),
		Customer:    in.Customer,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
	}
	jobs = append(jobs, job)

	if err := s.store.SaveJobs(ctx, jobs); err != nil {
		return models.Job{}, false, fmt.Errorf("failed to save jobs: %w", err)
	}

	s.metrics.JobChanged("create")
	slog.Info("Job created", "job_id", job.ID, "date", job.Date)
	return job, true, nil
}

// Get returns the job with the given id.
func (s *JobService) Get(ctx context.Context, id int) (models.Job, error) {
	jobs, err := s.List(ctx)
	if err != nil {
		return models.Job{}, err
	}
	i := models.FindJob(jobs, id)
	if i < 0 {
		return models.Job{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	return jobs[i], nil
}

// Update replaces the editable fields of a job. The list is not written
// when the id does not exist.
func (s *JobService) Update(ctx context.Context, id int, in JobInput) (models.Job, error) {
	jobs, err := s.List(ctx)
	if err != nil {
		return models.Job{}, err
	}
	i := models.FindJob(jobs, id)
	if i < 0 {
		return models.Job{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}

	jobs[i].Customer = in.Customer
	jobs[i].Description = in.Description
	jobs[i].Date = in.Date
	jobs[i].Time = in.Time

	if err := s.store.SaveJobs(ctx, jobs); err != nil {
		return models.Job{}, fmt.Errorf("failed to save jobs: %w", err)
	}

	s.metrics.JobChanged("update")
	slog.Info("Job updated", "job_id", id)
	return jobs[i], nil
}

// Delete removes every job with the given id and saves the remaining list.
// Deleting an unknown id rewrites the unchanged list.
func (s *JobService) Delete(ctx context.Context, id int) error {
	jobs, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := jobs[:0]
	for _, job := range jobs {
		if job.ID != id {
			kept = append(kept, job)
		}
	}
	removed := len(jobs) - len(kept)

	if err := s.store.SaveJobs(ctx, kept); err != nil {
		return fmt.Errorf("failed to save jobs: %w", err)
	}

	if removed > 0 {
		s.metrics.JobChanged("delete")
		slog.Info("Job deleted", "job_id", id)
	}
	return nil
}
