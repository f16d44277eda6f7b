package web

import (
	"errors"
	"net/http"

	"github.com/mmynk/jobbook/internal/calendar"
	"github.com/mmynk/jobbook/internal/export"
	"github.com/mmynk/jobbook/internal/service"
)

func jobInput(r *http.Request) service.JobInput {
	return service.JobInput{
		Customer:    r.PostFormValue("customer"),
		Description: r.PostFormValue("description"),
		Date:        r.PostFormValue("date"),
		Time:        r.PostFormValue("time"),
	}
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	s.renderSchedule(w, r)
}

// handleCreateJob adds a job and renders the schedule directly instead of
// redirecting, so the month in the query string stays in place.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if _, _, err := s.jobs.Create(r.Context(), jobInput(r)); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.renderSchedule(w, r)
}

func (s *Server) renderSchedule(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobs.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	q := r.URL.Query()
	ym := calendar.ParseYearMonth(q.Get("year"), q.Get("month"), s.now())

	s.render(w, r, pageSchedule, viewData{
		Title: "Schedule",
		Month: calendar.BuildMonth(ym.Year, ym.Month, jobs),
		Jobs:  jobs,
	})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.jobs.Delete(r.Context(), int(id)); err != nil {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/schedule")
}

func (s *Server) handleEditJobForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	job, err := s.jobs.Get(r.Context(), int(id))
	if errors.Is(err, service.ErrNotFound) {
		redirect(w, r, "/schedule")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, pageEditJob, viewData{Title: "Edit job", Job: job})
}

func (s *Server) handleEditJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	_, err := s.jobs.Update(r.Context(), int(id), jobInput(r))
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/schedule")
}

func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobs.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ICSContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.ics"`)
	if err := export.WriteICS(w, s.settings.Current().BusinessName, jobs, s.now()); err != nil {
		s.logger.Warn("Failed to write calendar export", "error", err)
	}
}
