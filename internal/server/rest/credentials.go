package rest

import (
	"net/http"

	"github.com/dmitrijs2005/drivenpass/internal/server/models"
	"github.com/dmitrijs2005/drivenpass/internal/server/services"
)

type credentialRequest struct {
	Title    string `json:"title" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=10"`
}

type credentialResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func newCredentialResponse(c *models.Credential) credentialResponse {
	return credentialResponse{
		ID:       c.ID,
		UserID:   c.UserID,
		Title:    c.Title,
		URL:      c.URL,
		Username: c.Username,
		Password: c.Password,
	}
}

func (s *Server) createCredential(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req credentialRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	c, err := s.credentials.Create(r.Context(), userID, services.CredentialInput{
		Title:    req.Title,
		URL:      req.URL,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newCredentialResponse(c))
}

func (s *Server) listCredentials(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	items, err := s.credentials.List(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]credentialResponse, 0, len(items))
	for _, c := range items {
		out = append(out, newCredentialResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getCredential(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	c, err := s.credentials.Get(r.Context(), userID, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newCredentialResponse(c))
}

func (s *Server) deleteCredential(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.credentials.Delete(r.Context(), userID, id); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
