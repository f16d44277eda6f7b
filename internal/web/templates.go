package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/mmynk/jobbook/internal/calendar"
	"github.com/mmynk/jobbook/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	pageLogin      = "login.html"
	pageSchedule   = "schedule.html"
	pageEditJob    = "edit_job.html"
	pageClients    = "clients.html"
	pageEditClient = "edit_client.html"
	pageSettings   = "settings.html"
)

var pageNames = []string{pageLogin, pageSchedule, pageEditJob, pageClients, pageEditClient, pageSettings}

// viewData is passed to every page. Settings is filled in by render.
type viewData struct {
	Settings models.Settings
	LoggedIn bool
	Title    string
	Error    string

	Month   calendar.MonthView
	Jobs    []models.Job
	Job     models.Job
	Clients []*models.Client
	Client  *models.Client
}

// parsePages builds one template set per page, each sharing the layout.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// render executes a page into a buffer first so template failures still
// produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data viewData) {
	tmpl, ok := s.pages[page]
	if !ok {
		s.serverError(w, r, fmt.Errorf("unknown page %q", page))
		return
	}

	data.Settings = s.settings.Current()
	data.LoggedIn = s.auth.Sessions().Authenticated(r)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.serverError(w, r, fmt.Errorf("failed to render %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
