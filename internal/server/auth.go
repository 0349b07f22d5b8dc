package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requireKey validates the X-API-Key header against the configured master key
// or a stored, non-revoked API key.
func (s *Server) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get("X-API-Key"))
		if key == "" {
			s.writeError(w, http.StatusUnauthorized, "missing api key")
			return
		}
		if master := strings.TrimSpace(s.cfg.API.MasterKey); master != "" {
			if subtle.ConstantTimeCompare([]byte(key), []byte(master)) == 1 {
				next(w, r)
				return
			}
		}
		ok, err := s.store.VerifyKey(r.Context(), key)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "key verification failed")
			return
		}
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next(w, r)
	}
}
