package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// KeyView is the wire representation of a stored API key. The raw key appears
// only in the creation response.
type KeyView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Key       string   `json:"key,omitempty"`
	Scopes    []string `json:"scopes"`
	Revoked   bool     `json:"revoked"`
	CreatedAt string   `json:"created_at"`
}

// KeyListResponse wraps the key listing endpoint payload.
type KeyListResponse struct {
	Keys []KeyView `json:"keys"`
}

type createKeyRequest struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listKeys(w, r)
	case http.MethodPost:
		s.createKey(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := s.store.ListKeys(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]KeyView, 0, len(keys))
	for _, key := range keys {
		views = append(views, KeyView{
			ID:        key.ID,
			Name:      key.Name,
			Scopes:    key.Scopes,
			Revoked:   key.Revoked,
			CreatedAt: key.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	s.writeJSON(w, http.StatusOK, KeyListResponse{Keys: views})
}

func (s *Server) createKey(w http.ResponseWriter, r *http.Request) {
	var req createKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	key, raw, err := s.store.CreateKey(r.Context(), req.Name, req.Scopes)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, KeyView{
		ID:        key.ID,
		Name:      key.Name,
		Key:       raw,
		Scopes:    key.Scopes,
		CreatedAt: key.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/keys/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "key not found")
		return
	}
	deleted, err := s.store.DeleteKey(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "key not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
