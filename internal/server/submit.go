package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"lingokit/internal/fileutil"
	"lingokit/internal/jobs"
	"lingokit/internal/language"
	"lingokit/internal/logging"
	"lingokit/internal/services"
)

const maxUploadBytes = 2 << 30

// SubmissionResponse is returned for single-job submissions.
type SubmissionResponse struct {
	JobID      string `json:"job_id"`
	Status     string `json:"status"`
	TargetLang string `json:"target_lang"`
	Detail     string `json:"detail"`
}

// BatchSubmissionResponse is returned for ALL22 fan-out submissions.
type BatchSubmissionResponse struct {
	JobIDs []string `json:"job_ids"`
}

func (s *Server) handleSubmitAudio(w http.ResponseWriter, r *http.Request) {
	s.submitUpload(w, r, jobs.TypeAudio)
}

func (s *Server) handleSubmitVideo(w http.ResponseWriter, r *http.Request) {
	s.submitUpload(w, r, jobs.TypeVideo)
}

func (s *Server) submitUpload(w http.ResponseWriter, r *http.Request, jobType jobs.JobType) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	targetLang := strings.TrimSpace(r.FormValue("target_lang"))
	if targetLang == "" {
		targetLang = s.cfg.Workflow.DefaultTargetLang
	}

	inputPath := filepath.Join(s.cfg.UploadsDir(), uuid.NewString()+"_"+sanitizeFilename(header.Filename))
	if err := saveUpload(file, inputPath); err != nil {
		s.logger.Error("failed to store upload", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	job, err := s.store.NewJob(r.Context(), jobType, targetLang, inputPath)
	if err != nil {
		s.logger.Error("failed to create job", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "could not create job")
		return
	}
	s.pipeline.Wake()

	s.writeJSON(w, http.StatusAccepted, SubmissionResponse{
		JobID:      job.ID,
		Status:     string(job.Status),
		TargetLang: job.TargetLang,
		Detail:     "queued for transcription and translation",
	})
}

type videoURLRequest struct {
	URL        string `json:"url"`
	TargetLang string `json:"target_lang"`
}

func (s *Server) handleSubmitVideoURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req videoURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	targetLang := strings.TrimSpace(req.TargetLang)
	if targetLang == "" {
		targetLang = s.cfg.Workflow.DefaultTargetLang
	}

	batchID := uuid.NewString()
	sharedPath := filepath.Join(s.cfg.SharedDir(), "shared_"+batchID+".mp4")
	if err := s.normalizer.FetchURL(r.Context(), req.URL, sharedPath); err != nil {
		// No job exists yet, so download problems surface to the caller.
		if services.IsSubmissionRejection(err) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("url download failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "could not fetch source url")
		return
	}

	if strings.EqualFold(targetLang, language.BatchAll) {
		ids, err := s.fanOutBatch(r, batchID, sharedPath)
		if err != nil {
			s.logger.Error("batch submission failed", logging.Error(err))
			s.writeError(w, http.StatusInternalServerError, "could not create batch jobs")
			return
		}
		s.pipeline.Wake()
		s.writeJSON(w, http.StatusAccepted, BatchSubmissionResponse{JobIDs: ids})
		return
	}

	job, err := s.store.NewJob(r.Context(), jobs.TypeVideo, targetLang, sharedPath)
	if err != nil {
		s.logger.Error("failed to create job", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "could not create job")
		return
	}
	s.pipeline.Wake()
	s.writeJSON(w, http.StatusAccepted, SubmissionResponse{
		JobID:      job.ID,
		Status:     string(job.Status),
		TargetLang: job.TargetLang,
		Detail:     "queued for transcription and translation",
	})
}

// fanOutBatch creates one job per supported language. Each job gets its own
// copy of the download; when copying fails the job references the shared
// file instead so the batch still proceeds.
func (s *Server) fanOutBatch(r *http.Request, batchID, sharedPath string) ([]string, error) {
	tags := language.AllTags()
	ids := make([]string, 0, len(tags))
	for _, tag := range tags {
		inputPath := filepath.Join(s.cfg.UploadsDir(), fmt.Sprintf("%s_%s.mp4", batchID, tag))
		if err := copyForJob(sharedPath, inputPath); err != nil {
			s.logger.Warn("per-job copy failed, sharing download",
				logging.Error(err),
				logging.String("target_lang", tag),
			)
			inputPath = sharedPath
		}
		job, err := s.store.NewJob(r.Context(), jobs.TypeVideo, tag, inputPath)
		if err != nil {
			return nil, err
		}
		ids = append(ids, job.ID)
	}
	return ids, nil
}

func copyForJob(src, dst string) error {
	if err := fileutil.EnsureParent(dst); err != nil {
		return err
	}
	return fileutil.CopyFile(src, dst)
}

func saveUpload(src io.Reader, dst string) error {
	if err := fileutil.EnsureParent(dst); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		default:
			return r
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}
