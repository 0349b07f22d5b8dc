package pipeline_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"lingokit/internal/config"
	"lingokit/internal/jobs"
	"lingokit/internal/logging"
	"lingokit/internal/pipeline"
	"lingokit/internal/subtitle"
	"lingokit/internal/testsupport"
)

type fakeNotifier struct {
	completed atomic.Int32
	failed    atomic.Int32
}

func (f *fakeNotifier) NotifyJobCompleted(context.Context, string, string) error {
	f.completed.Add(1)
	return nil
}

func (f *fakeNotifier) NotifyJobFailed(context.Context, string, string) error {
	f.failed.Add(1)
	return nil
}

func (f *fakeNotifier) TestNotification(context.Context) error { return nil }

// writeFFmpegStub copies the fixture named by LINGOKIT_TEST_FIXTURE to the
// last argument, standing in for audio normalization.
func writeFFmpegStub(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nfor last; do :; done\ncp \"$LINGOKIT_TEST_FIXTURE\" \"$last\"\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	return path
}

// writeUVXStub writes the given WhisperX JSON payload into the --output_dir
// passed on the command line.
func writeUVXStub(t *testing.T, dir, payload string) {
	t.Helper()
	script := fmt.Sprintf(`#!/bin/sh
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--output_dir" ]; then out="$a"; fi
  prev="$a"
done
cat > "$out/whisper_input.json" <<'EOF'
%s
EOF
`, payload)
	if err := os.WriteFile(filepath.Join(dir, "uvx"), []byte(script), 0o755); err != nil {
		t.Fatalf("write uvx stub: %v", err)
	}
}

func newPipelineEnv(t *testing.T, whisperPayload string) (*config.Config, *jobs.Store, *fakeNotifier, *pipeline.Manager, *atomic.Int32) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	binDir := t.TempDir()

	fixture := filepath.Join(binDir, "fixture.wav")
	testsupport.WriteWAV(t, fixture, 16000, 1, 16, 1600)
	t.Setenv("LINGOKIT_TEST_FIXTURE", fixture)

	cfg.Media.FFmpegBinary = writeFFmpegStub(t, binDir)
	writeUVXStub(t, binDir, whisperPayload)
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	var translateCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		translateCalls.Add(1)
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode translate request: %v", err)
		}
		resp := map[string]string{"translation": "XL:" + req["text"]}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode translate response: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	cfg.Translator.BaseURL = server.URL

	store := testsupport.MustOpenStore(t, cfg)
	notifier := &fakeNotifier{}
	manager := pipeline.NewManagerWithNotifier(cfg, store, logging.NewNop(), notifier)
	return cfg, store, notifier, manager, &translateCalls
}

func claimJob(t *testing.T, store *jobs.Store, jobType jobs.JobType, targetLang, inputPath string) *jobs.Job {
	t.Helper()
	if _, err := store.NewJob(context.Background(), jobType, targetLang, inputPath); err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	job, err := store.Claim(context.Background())
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if job == nil {
		t.Fatal("expected a claimable job")
	}
	return job
}

func TestProcessCompletesJob(t *testing.T) {
	payload := `{"segments":[{"start":0,"end":1.5,"text":" Hello. "},{"start":1.5,"end":3,"text":"World."}]}`
	cfg, store, notifier, manager, translateCalls := newPipelineEnv(t, payload)

	job := claimJob(t, store, jobs.TypeAudio, "hi", filepath.Join(t.TempDir(), "input.mp3"))
	manager.Process(context.Background(), job)

	got, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != jobs.StatusDone {
		t.Fatalf("expected DONE, got %s (error: %s)", got.Status, got.ErrorMessage)
	}
	if got.TranscriptText != "Hello. World." {
		t.Fatalf("unexpected transcript: %q", got.TranscriptText)
	}
	// The transcript is translated as one document, not cue by cue.
	if got.TranslationText != "XL:Hello. World." {
		t.Fatalf("unexpected translation: %q", got.TranslationText)
	}
	if translateCalls.Load() != 1 {
		t.Fatalf("expected one translate call for the full transcript, got %d", translateCalls.Load())
	}
	if got.SRTPath == "" || got.VTTPath == "" {
		t.Fatalf("expected artifact paths, got %q / %q", got.SRTPath, got.VTTPath)
	}
	if !strings.HasPrefix(got.SRTPath, cfg.JobsDir()) {
		t.Fatalf("artifacts must live under the jobs dir: %s", got.SRTPath)
	}
	count, err := subtitle.CountCues(got.SRTPath)
	if err != nil {
		t.Fatalf("CountCues failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 cues, got %d", count)
	}
	srtData, err := os.ReadFile(got.SRTPath)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	// Cues carry the transcription's timed text.
	if !strings.Contains(string(srtData), "Hello.") || strings.Contains(string(srtData), "XL:") {
		t.Fatalf("expected untranslated cue text, got:\n%s", srtData)
	}
	if notifier.completed.Load() != 1 {
		t.Fatalf("expected a completion notification, got %d", notifier.completed.Load())
	}
}

func TestProcessSpeechlessAudioStillCompletes(t *testing.T) {
	_, store, _, manager, translateCalls := newPipelineEnv(t, `{"segments":[]}`)

	job := claimJob(t, store, jobs.TypeAudio, "fr", "input.mp3")
	manager.Process(context.Background(), job)

	got, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != jobs.StatusDone {
		t.Fatalf("expected DONE, got %s (error: %s)", got.Status, got.ErrorMessage)
	}
	if got.TranscriptText != "" || got.TranslationText != "" {
		t.Fatalf("expected empty text fields, got %q / %q", got.TranscriptText, got.TranslationText)
	}
	if translateCalls.Load() != 0 {
		t.Fatal("speechless audio must not reach the translator")
	}
	data, err := os.ReadFile(got.VTTPath)
	if err != nil {
		t.Fatalf("read vtt: %v", err)
	}
	if string(data) != "WEBVTT\n\n" {
		t.Fatalf("expected header-only vtt, got %q", data)
	}
}

func TestProcessFailureMarksError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Media.FFmpegBinary = "/nonexistent/ffmpeg"
	t.Setenv("PATH", t.TempDir())

	store := testsupport.MustOpenStore(t, cfg)
	notifier := &fakeNotifier{}
	manager := pipeline.NewManagerWithNotifier(cfg, store, logging.NewNop(), notifier)

	job := claimJob(t, store, jobs.TypeAudio, "hi", "input.mp3")
	manager.Process(context.Background(), job)

	got, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != jobs.StatusError {
		t.Fatalf("expected ERROR, got %s", got.Status)
	}
	if !strings.HasPrefix(got.ErrorMessage, "dependency_unavailable:") {
		t.Fatalf("unexpected error message: %q", got.ErrorMessage)
	}
	if got.SRTPath != "" || got.VTTPath != "" {
		t.Fatal("failed jobs must not record artifacts")
	}
	if notifier.failed.Load() != 1 {
		t.Fatalf("expected a failure notification, got %d", notifier.failed.Load())
	}
}

func TestProcessDecodeReadFailureKeepsTransientMarker(t *testing.T) {
	cfg, store, _, manager, _ := newPipelineEnv(t, `{"segments":[]}`)

	// Stand-in normalizer that leaves a directory where the WAV should be,
	// so reading the normalized audio fails.
	stub := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor last; do :; done\nmkdir -p \"$last\"\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	cfg.Media.FFmpegBinary = stub

	job := claimJob(t, store, jobs.TypeAudio, "hi", "input.mp3")
	manager.Process(context.Background(), job)

	got, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != jobs.StatusError {
		t.Fatalf("expected ERROR, got %s", got.Status)
	}
	if !strings.HasPrefix(got.ErrorMessage, "transient:") {
		t.Fatalf("expected transient marker, got %q", got.ErrorMessage)
	}
}

func TestProcessTranslatorFailureMarksError(t *testing.T) {
	payload := `{"segments":[{"start":0,"end":1,"text":"Hello."}]}`
	cfg, store, notifier, manager, translateCalls := newPipelineEnv(t, payload)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		translateCalls.Add(1)
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
	}))
	t.Cleanup(failing.Close)
	cfg.Translator.BaseURL = failing.URL

	job := claimJob(t, store, jobs.TypeAudio, "hi", "input.mp3")
	manager.Process(context.Background(), job)

	got, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != jobs.StatusError {
		t.Fatalf("expected ERROR, got %s", got.Status)
	}
	if translateCalls.Load() != 1 {
		t.Fatalf("expected one translate attempt, got %d", translateCalls.Load())
	}
	if got.TranscriptText != "" || got.TranslationText != "" {
		t.Fatalf("failed jobs must not record text, got %q / %q", got.TranscriptText, got.TranslationText)
	}
	if got.SRTPath != "" || got.VTTPath != "" {
		t.Fatal("failed jobs must not record artifacts")
	}
	if notifier.failed.Load() != 1 {
		t.Fatalf("expected a failure notification, got %d", notifier.failed.Load())
	}
}

func TestManagerWakeProcessesPendingJob(t *testing.T) {
	payload := `{"segments":[{"start":0,"end":1,"text":"Hi"}]}`
	_, store, _, manager, _ := newPipelineEnv(t, payload)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer manager.Stop()

	created, err := store.NewJob(context.Background(), jobs.TypeAudio, "hi", "input.mp3")
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	manager.Wake()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		got, err := store.GetByID(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Status == jobs.StatusDone {
			return
		}
		if got.Status == jobs.StatusError {
			t.Fatalf("job failed: %s", got.ErrorMessage)
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("job did not complete before the deadline")
}
