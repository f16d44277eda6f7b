package web

import (
	"net/http"

	"github.com/mmynk/jobbook/internal/models"
	"github.com/mmynk/jobbook/internal/service"
)

// Values used for settings fields missing from the submitted form.
const (
	defaultLoginUsername = "admin"
	defaultLoginPassword = "password"
)

// postFormOr returns the submitted value of key, or def when the field was
// not part of the form at all. A present but empty field returns "".
func postFormOr(r *http.Request, key, def string) string {
	if _, ok := r.PostForm[key]; !ok {
		return def
	}
	return r.PostForm.Get(key)
}

func (s *Server) handleSettingsForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, pageSettings, viewData{Title: "Settings"})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	_, err := s.settings.Update(r.Context(), service.SettingsInput{
		BusinessName:  postFormOr(r, "business_name", models.DefaultBusinessName),
		ContactEmail:  postFormOr(r, "contact_email", ""),
		LoginUsername: postFormOr(r, "login_username", defaultLoginUsername),
		LoginPassword: postFormOr(r, "login_password", defaultLoginPassword),
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/settings")
}
