package server

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"lingokit/internal/config"
	"lingokit/internal/jobs"
)

// JobView is the wire representation of a job row. Text fields appear only
// once a job is DONE; the dubbed fields are reserved and always null.
type JobView struct {
	ID             string  `json:"id"`
	JobType        string  `json:"job_type"`
	Status         string  `json:"status"`
	TargetLang     string  `json:"target_lang"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
	Error          string  `json:"error,omitempty"`
	Transcript     *string `json:"transcript"`
	Translation    *string `json:"translation"`
	SRTURL         *string `json:"srt_url"`
	VTTURL         *string `json:"vtt_url"`
	DubbedAudioURL *string `json:"dubbed_audio_url"`
	DubbedVideoURL *string `json:"dubbed_video_url"`
}

// JobListResponse wraps the job listing endpoint payload.
type JobListResponse struct {
	Jobs []JobView `json:"jobs"`
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var statuses []jobs.Status
	for _, value := range r.URL.Query()["status"] {
		if strings.TrimSpace(value) == "" {
			continue
		}
		status, ok := jobs.ParseStatus(value)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "unknown status "+value)
			return
		}
		statuses = append(statuses, status)
	}

	list, err := s.store.List(r.Context(), statuses...)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]JobView, 0, len(list))
	for _, job := range list {
		views = append(views, newJobView(s.cfg, job))
	}
	s.writeJSON(w, http.StatusOK, JobListResponse{Jobs: views})
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	job, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newJobView(s.cfg, job))
}

func newJobView(cfg *config.Config, job *jobs.Job) JobView {
	view := JobView{
		ID:         job.ID,
		JobType:    string(job.JobType),
		Status:     string(job.Status),
		TargetLang: job.TargetLang,
		CreatedAt:  job.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  job.UpdatedAt.UTC().Format(time.RFC3339),
		Error:      job.ErrorMessage,
	}
	if job.Status == jobs.StatusDone {
		view.Transcript = &job.TranscriptText
		view.Translation = &job.TranslationText
		view.SRTURL = mediaURL(cfg, job.SRTPath)
		view.VTTURL = mediaURL(cfg, job.VTTPath)
	}
	return view
}

// mediaURL maps an artifact path under the media dir to its serving URL.
// Paths outside the media dir are never exposed.
func mediaURL(cfg *config.Config, path string) *string {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	rel, err := filepath.Rel(cfg.Paths.MediaDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	url := "/media/" + filepath.ToSlash(rel)
	return &url
}

func (s *Server) handleMedia() http.Handler {
	return http.StripPrefix("/media/", http.FileServer(http.Dir(s.cfg.Paths.MediaDir)))
}
