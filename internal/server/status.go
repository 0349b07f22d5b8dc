package server

import (
	"net/http"
	"os"

	"lingokit/internal/deps"
)

// DependencyStatus mirrors deps.Status on the wire.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// StatusResponse summarizes the daemon for the CLI status command.
type StatusResponse struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	DatabasePath string             `json:"database_path"`
	Jobs         map[string]int     `json:"jobs"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	jobCounts := make(map[string]int, len(stats))
	for status, count := range stats {
		jobCounts[string(status)] = count
	}

	checks := deps.CheckBinaries(deps.DefaultRequirements(s.cfg))
	statuses := make([]DependencyStatus, 0, len(checks))
	for _, check := range checks {
		statuses = append(statuses, DependencyStatus{
			Name:        check.Name,
			Command:     check.Command,
			Description: check.Description,
			Optional:    check.Optional,
			Available:   check.Available,
			Detail:      check.Detail,
		})
	}

	s.writeJSON(w, http.StatusOK, StatusResponse{
		Running:      true,
		PID:          os.Getpid(),
		DatabasePath: s.store.Path(),
		Jobs:         jobCounts,
		Dependencies: statuses,
	})
}
