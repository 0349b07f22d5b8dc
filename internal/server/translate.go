package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lingokit/internal/language"
	"lingokit/internal/logging"
	"lingokit/internal/services"
)

type translateTextRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// TranslateTextResponse echoes the resolved engine-native codes alongside the
// translation.
type TranslateTextResponse struct {
	Translation string `json:"translation"`
	SourceLang  string `json:"source_lang"`
	TargetLang  string `json:"target_lang"`
}

func (s *Server) handleTranslateText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req translateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	source := strings.TrimSpace(req.SourceLang)
	if strings.EqualFold(source, "auto") {
		source = ""
	}
	sourceCode := language.Resolve(source)
	targetLang := strings.TrimSpace(req.TargetLang)
	if targetLang == "" {
		targetLang = s.cfg.Workflow.DefaultTargetLang
	}
	targetCode := language.Resolve(targetLang)

	translator, err := s.pipeline.Engines().Translator(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	translation, err := translator.Translate(r.Context(), req.Text, sourceCode, targetCode)
	if err != nil {
		if errors.Is(err, services.ErrModelInit) {
			s.writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		s.logger.Error("synchronous translation failed", logging.Error(err))
		s.writeError(w, http.StatusBadGateway, "translation failed")
		return
	}
	s.writeJSON(w, http.StatusOK, TranslateTextResponse{
		Translation: translation,
		SourceLang:  sourceCode,
		TargetLang:  targetCode,
	})
}
