package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lingokit/internal/server"
)

const testAPIKey = "cli-test-key"

type apiStub struct {
	lastKey  string
	lastPath string
	query    map[string][]string
}

func newAPIStub(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *apiStub) {
	t.Helper()
	stub := &apiStub{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.lastKey = r.Header.Get("X-API-Key")
		stub.lastPath = r.URL.Path
		stub.query = r.URL.Query()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, stub
}

func runCLI(t *testing.T, serverURL string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--server", serverURL, "--api-key", testAPIKey}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeAPIResponse(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestStatusCommandRendersSections(t *testing.T) {
	srv, stub := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIResponse(t, w, http.StatusOK, server.StatusResponse{
			Running:      true,
			PID:          4242,
			DatabasePath: "/data/lingokit.db",
			Jobs:         map[string]int{"PENDING": 3},
			Dependencies: []server.DependencyStatus{
				{Name: "FFmpeg", Command: "ffmpeg", Available: true},
				{Name: "uvx", Available: false, Detail: "not found on PATH"},
			},
		})
	})

	stdout, _, err := runCLI(t, srv.URL, "status")
	if err != nil {
		t.Fatalf("status command failed: %v", err)
	}
	if stub.lastKey != testAPIKey {
		t.Fatalf("expected API key header, got %q", stub.lastKey)
	}
	requireContains(t, stdout, "running (pid 4242)")
	requireContains(t, stdout, "[OK] ffmpeg")
	requireContains(t, stdout, "[ERROR] not found on PATH")
	requireContains(t, stdout, "PENDING")
}

func TestJobsCommandFiltersByStatus(t *testing.T) {
	srv, stub := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIResponse(t, w, http.StatusOK, server.JobListResponse{
			Jobs: []server.JobView{{
				ID:         "job-1",
				JobType:    "video",
				Status:     "DONE",
				TargetLang: "ta",
				UpdatedAt:  "2026-01-02T03:04:05Z",
			}},
		})
	})

	stdout, _, err := runCLI(t, srv.URL, "jobs", "--status", "done")
	if err != nil {
		t.Fatalf("jobs command failed: %v", err)
	}
	if got := stub.query["status"]; len(got) != 1 || got[0] != "DONE" {
		t.Fatalf("expected uppercased status filter, got %v", got)
	}
	requireContains(t, stdout, "job-1")
	requireContains(t, stdout, "ta (Tamil)")
}

func TestJobsCommandEmptyList(t *testing.T) {
	srv, _ := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIResponse(t, w, http.StatusOK, server.JobListResponse{Jobs: []server.JobView{}})
	})

	stdout, _, err := runCLI(t, srv.URL, "jobs")
	if err != nil {
		t.Fatalf("jobs command failed: %v", err)
	}
	requireContains(t, stdout, "No jobs found")
}

func TestShowCommandRendersCompletedJob(t *testing.T) {
	transcript := "Hello world."
	translation := "Vanakkam ulagam."
	srtURL := "/media/jobs/job-9/subtitles.srt"
	srv, stub := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIResponse(t, w, http.StatusOK, server.JobView{
			ID:          "job-9",
			JobType:     "audio",
			Status:      "DONE",
			TargetLang:  "ta",
			CreatedAt:   "2026-01-02T03:04:05Z",
			UpdatedAt:   "2026-01-02T03:05:06Z",
			Transcript:  &transcript,
			Translation: &translation,
			SRTURL:      &srtURL,
		})
	})

	stdout, _, err := runCLI(t, srv.URL, "show", "job-9")
	if err != nil {
		t.Fatalf("show command failed: %v", err)
	}
	if stub.lastPath != "/api/jobs/job-9" {
		t.Fatalf("unexpected request path %q", stub.lastPath)
	}
	requireContains(t, stdout, "[OK] DONE")
	requireContains(t, stdout, srtURL)
	requireContains(t, stdout, "Hello world.")
	requireContains(t, stdout, "Vanakkam ulagam.")
}

func TestShowCommandSurfacesAPIError(t *testing.T) {
	srv, _ := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIResponse(t, w, http.StatusNotFound, map[string]string{"error": "job not found"})
	})

	_, _, err := runCLI(t, srv.URL, "show", "missing")
	if err == nil || !strings.Contains(err.Error(), "job not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestSubmitCommandUploadsFile(t *testing.T) {
	mediaPath := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(mediaPath, []byte("fake audio"), 0o644); err != nil {
		t.Fatalf("write media file: %v", err)
	}

	var gotFilename, gotLang string
	srv, stub := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			writeAPIResponse(t, w, http.StatusBadRequest, map[string]string{"error": "missing file"})
			return
		}
		file.Close()
		gotFilename = header.Filename
		gotLang = r.FormValue("target_lang")
		writeAPIResponse(t, w, http.StatusAccepted, server.SubmissionResponse{
			JobID:      "job-5",
			Status:     "PENDING",
			TargetLang: "hi",
		})
	})

	stdout, _, err := runCLI(t, srv.URL, "submit", mediaPath, "--lang", "hi")
	if err != nil {
		t.Fatalf("submit command failed: %v", err)
	}
	if stub.lastPath != "/api/translate/audio" {
		t.Fatalf("unexpected request path %q", stub.lastPath)
	}
	if gotFilename != "clip.mp3" || gotLang != "hi" {
		t.Fatalf("unexpected upload fields: filename=%q lang=%q", gotFilename, gotLang)
	}
	requireContains(t, stdout, "Job job-5 queued")
}

func TestSubmitCommandVideoEndpoint(t *testing.T) {
	mediaPath := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(mediaPath, []byte("fake video"), 0o644); err != nil {
		t.Fatalf("write media file: %v", err)
	}

	srv, stub := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIResponse(t, w, http.StatusAccepted, server.SubmissionResponse{JobID: "job-6", Status: "PENDING", TargetLang: "ta"})
	})

	if _, _, err := runCLI(t, srv.URL, "submit", mediaPath, "--video"); err != nil {
		t.Fatalf("submit command failed: %v", err)
	}
	if stub.lastPath != "/api/translate/video" {
		t.Fatalf("unexpected request path %q", stub.lastPath)
	}
}

func TestSubmitURLBatchListsEveryJob(t *testing.T) {
	srv, _ := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL        string `json:"url"`
			TargetLang string `json:"target_lang"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.TargetLang != "ALL22" {
			t.Errorf("expected ALL22 target, got %q", req.TargetLang)
		}
		writeAPIResponse(t, w, http.StatusAccepted, server.BatchSubmissionResponse{
			JobIDs: []string{"job-a", "job-b", "job-c"},
		})
	})

	stdout, _, err := runCLI(t, srv.URL, "submit-url", "http://example.com/talk.mp4", "--lang", "ALL22")
	if err != nil {
		t.Fatalf("submit-url command failed: %v", err)
	}
	requireContains(t, stdout, "Queued 3 jobs")
	requireContains(t, stdout, "job-b")
}

func TestTranslateCommandPrintsTranslation(t *testing.T) {
	srv, stub := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text       string `json:"text"`
			SourceLang string `json:"source_lang"`
			TargetLang string `json:"target_lang"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "hello there" {
			t.Errorf("expected joined args, got %q", req.Text)
		}
		writeAPIResponse(t, w, http.StatusOK, server.TranslateTextResponse{
			Translation: "namaste",
			SourceLang:  "eng_Latn",
			TargetLang:  "hin_Deva",
		})
	})

	stdout, _, err := runCLI(t, srv.URL, "translate", "hello", "there", "--to", "hi")
	if err != nil {
		t.Fatalf("translate command failed: %v", err)
	}
	if stub.lastPath != "/api/translate" {
		t.Fatalf("unexpected request path %q", stub.lastPath)
	}
	if strings.TrimSpace(stdout) != "namaste" {
		t.Fatalf("expected bare translation, got %q", stdout)
	}
}

func TestKeysCreateShowsRawKey(t *testing.T) {
	srv, _ := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIResponse(t, w, http.StatusCreated, server.KeyView{
			ID:        "key-1",
			Name:      "ci",
			Key:       "lk_live_secret",
			CreatedAt: "2026-01-02T03:04:05Z",
		})
	})

	stdout, _, err := runCLI(t, srv.URL, "keys", "create", "ci")
	if err != nil {
		t.Fatalf("keys create failed: %v", err)
	}
	requireContains(t, stdout, "lk_live_secret")
	requireContains(t, stdout, "cannot be retrieved again")
}

func TestKeysRevokeReportsMissingKey(t *testing.T) {
	srv, _ := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIResponse(t, w, http.StatusNotFound, map[string]string{"error": "key not found"})
	})

	stdout, _, err := runCLI(t, srv.URL, "keys", "revoke", "key-404")
	if err != nil {
		t.Fatalf("keys revoke failed: %v", err)
	}
	requireContains(t, stdout, "Key key-404 not found")
}

func TestHealthCommand(t *testing.T) {
	srv, _ := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIResponse(t, w, http.StatusOK, map[string]string{"status": "ok"})
	})

	stdout, _, err := runCLI(t, srv.URL, "health")
	if err != nil {
		t.Fatalf("health command failed: %v", err)
	}
	requireContains(t, stdout, "Daemon healthy (ok)")
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(content), "[paths]") {
		t.Fatalf("expected annotated sample, got:\n%s", content)
	}

	cmd = newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
}
