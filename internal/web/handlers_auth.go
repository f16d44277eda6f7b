package web

import (
	"errors"
	"net/http"

	"github.com/mmynk/jobbook/internal/auth"
)

const invalidCredentialsMessage = "Invalid Credentials"

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, pageLogin, viewData{Title: "Log in"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	token, err := s.auth.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.render(w, r, pageLogin, viewData{Title: "Log in", Error: invalidCredentialsMessage})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if _, err := s.auth.Sessions().SetCookie(w, token); err != nil {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/schedule")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Sessions().Clear(w)
	redirect(w, r, "/login")
}
