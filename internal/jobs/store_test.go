package jobs_test

import (
	"context"
	"testing"

	"lingokit/internal/jobs"
	"lingokit/internal/testsupport"
)

func TestNewJobDefaults(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	job, err := store.NewJob(ctx, jobs.TypeAudio, "hi", "/tmp/input.mp3")
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected generated job id")
	}
	if job.Status != jobs.StatusPending {
		t.Fatalf("expected PENDING, got %s", job.Status)
	}
	if job.TargetLang != "hi" {
		t.Fatalf("unexpected target lang: %q", job.TargetLang)
	}
	if job.CreatedAt.IsZero() || job.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	job, err := store.GetByID(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if job != nil {
		t.Fatalf("expected nil job, got %+v", job)
	}
}

func TestUpdatePersistsResults(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	job, err := store.NewJob(ctx, jobs.TypeVideo, "ta", "/tmp/clip.mp4")
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	job.Status = jobs.StatusDone
	job.TranscriptText = "hello world"
	job.TranslationText = "vanakkam ulagam"
	job.SRTPath = "/media/jobs/x/sub.srt"
	job.VTTPath = "/media/jobs/x/sub.vtt"
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != jobs.StatusDone {
		t.Fatalf("expected DONE, got %s", got.Status)
	}
	if got.TranscriptText != "hello world" || got.TranslationText != "vanakkam ulagam" {
		t.Fatalf("unexpected texts: %q / %q", got.TranscriptText, got.TranslationText)
	}
	if got.SRTPath == "" || got.VTTPath == "" {
		t.Fatal("expected subtitle paths to persist")
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatal("expected updated_at to advance")
	}
}

func TestClaimTakesOldestPendingOnce(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first, err := store.NewJob(ctx, jobs.TypeAudio, "hi", "/tmp/a.mp3")
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	if _, err := store.NewJob(ctx, jobs.TypeAudio, "hi", "/tmp/b.mp3"); err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	claimed, err := store.Claim(ctx)
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if claimed == nil {
		t.Fatal("expected a claimed job")
	}
	if claimed.ID != first.ID {
		t.Fatalf("expected oldest job %s, got %s", first.ID, claimed.ID)
	}
	if claimed.Status != jobs.StatusRunning {
		t.Fatalf("expected RUNNING after claim, got %s", claimed.Status)
	}

	// The RUNNING transition is visible to other readers immediately.
	snapshot, err := store.GetByID(ctx, claimed.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if snapshot.Status != jobs.StatusRunning {
		t.Fatalf("claim not persisted, status %s", snapshot.Status)
	}

	second, err := store.Claim(ctx)
	if err != nil {
		t.Fatalf("second Claim failed: %v", err)
	}
	if second == nil || second.ID == claimed.ID {
		t.Fatal("expected second claim to take the remaining job")
	}

	third, err := store.Claim(ctx)
	if err != nil {
		t.Fatalf("third Claim failed: %v", err)
	}
	if third != nil {
		t.Fatalf("expected empty queue, got %s", third.ID)
	}
}

func TestMarkInterruptedFailsRunningJobs(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := store.NewJob(ctx, jobs.TypeAudio, "hi", "/tmp/a.mp3"); err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	running, err := store.Claim(ctx)
	if err != nil || running == nil {
		t.Fatalf("Claim failed: %v", err)
	}
	pending, err := store.NewJob(ctx, jobs.TypeAudio, "hi", "/tmp/b.mp3")
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	count, err := store.MarkInterrupted(ctx)
	if err != nil {
		t.Fatalf("MarkInterrupted failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 interrupted job, got %d", count)
	}

	got, err := store.GetByID(ctx, running.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != jobs.StatusError {
		t.Fatalf("expected ERROR after recovery, got %s", got.Status)
	}
	if got.ErrorMessage != jobs.InterruptedMessage {
		t.Fatalf("unexpected error message: %q", got.ErrorMessage)
	}

	untouched, err := store.GetByID(ctx, pending.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if untouched.Status != jobs.StatusPending {
		t.Fatalf("pending job should be untouched, got %s", untouched.Status)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := store.NewJob(ctx, jobs.TypeAudio, "hi", "/tmp/a.mp3"); err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	claimed, err := store.Claim(ctx)
	if err != nil || claimed == nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if _, err := store.NewJob(ctx, jobs.TypeAudio, "ta", "/tmp/b.mp3"); err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(all))
	}

	pending, err := store.List(ctx, jobs.StatusPending)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Status != jobs.StatusPending {
		t.Fatalf("unexpected pending list: %+v", pending)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[jobs.StatusPending] != 1 || stats[jobs.StatusRunning] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := jobs.ParseStatus(" done "); !ok || status != jobs.StatusDone {
		t.Fatalf("ParseStatus failed: %s %v", status, ok)
	}
	if _, ok := jobs.ParseStatus("bogus"); ok {
		t.Fatal("expected parse failure")
	}
	if !jobs.StatusDone.IsTerminal() || !jobs.StatusError.IsTerminal() {
		t.Fatal("DONE and ERROR are terminal")
	}
	if jobs.StatusRunning.IsTerminal() {
		t.Fatal("RUNNING is not terminal")
	}
}
