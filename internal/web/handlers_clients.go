package web

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/mmynk/jobbook/internal/export"
	"github.com/mmynk/jobbook/internal/service"
)

func clientInput(r *http.Request) service.ClientInput {
	return service.ClientInput{
		Name:    r.PostFormValue("name"),
		Phone:   r.PostFormValue("phone"),
		Email:   r.PostFormValue("email"),
		Address: r.PostFormValue("address"),
		Notes:   r.PostFormValue("notes"),
	}
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.clients.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, pageClients, viewData{Title: "Clients", Clients: clients})
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	_, err := s.clients.Create(r.Context(), clientInput(r))
	if errors.Is(err, service.ErrInvalidClient) {
		s.logger.Warn("Client rejected", "error", err)
	} else if err != nil {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/clients")
}

func (s *Server) handleEditClientForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	client, err := s.clients.Get(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		redirect(w, r, "/clients")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, pageEditClient, viewData{Title: "Edit client", Client: client})
}

func (s *Server) handleEditClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	_, err := s.clients.Update(r.Context(), id, clientInput(r))
	switch {
	case err == nil, errors.Is(err, service.ErrNotFound):
	case errors.Is(err, service.ErrInvalidClient):
		s.logger.Warn("Client update rejected", "client_id", id, "error", err)
	default:
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/clients")
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.clients.Delete(r.Context(), id); err != nil {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/clients")
}

func (s *Server) handleExportClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.clients.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteClientsXLSX(&buf, clients); err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.XLSXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="clients.xlsx"`)
	buf.WriteTo(w)
}
