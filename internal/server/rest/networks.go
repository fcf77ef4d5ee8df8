package rest

import (
	"net/http"

	"github.com/dmitrijs2005/drivenpass/internal/server/models"
	"github.com/dmitrijs2005/drivenpass/internal/server/services"
)

type networkRequest struct {
	Title    string `json:"title" validate:"required"`
	Network  string `json:"network" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type networkResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	Title    string `json:"title"`
	Network  string `json:"network"`
	Password string `json:"password"`
}

func newNetworkResponse(n *models.Network) networkResponse {
	return networkResponse{
		ID:       n.ID,
		UserID:   n.UserID,
		Title:    n.Title,
		Network:  n.Network,
		Password: n.Password,
	}
}

func (s *Server) createNetwork(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req networkRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	n, err := s.networks.Create(r.Context(), userID, services.NetworkInput{
		Title:    req.Title,
		Network:  req.Network,
		Password: req.Password,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newNetworkResponse(n))
}

func (s *Server) listNetworks(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	items, err := s.networks.List(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]networkResponse, 0, len(items))
	for _, n := range items {
		out = append(out, newNetworkResponse(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getNetwork(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	n, err := s.networks.Get(r.Context(), userID, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newNetworkResponse(n))
}

func (s *Server) deleteNetwork(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.networks.Delete(r.Context(), userID, id); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
