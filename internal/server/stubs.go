package server

import "net/http"

// The vocab, workflow, and accessibility surfaces are reserved: routed and
// authenticated, but not yet implemented.

func (s *Server) handleVocab(w http.ResponseWriter, r *http.Request) {
	s.handleReservedCollection(w, r)
}

func (s *Server) handleWorkflows(w http.ResponseWriter, r *http.Request) {
	s.handleReservedCollection(w, r)
}

func (s *Server) handleReservedCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
	case http.MethodPost:
		s.writeError(w, http.StatusNotImplemented, "not implemented")
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	s.handleReservedAction(w, r)
}

func (s *Server) handleSTT(w http.ResponseWriter, r *http.Request) {
	s.handleReservedAction(w, r)
}

func (s *Server) handleReservedAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeError(w, http.StatusNotImplemented, "not implemented")
}
