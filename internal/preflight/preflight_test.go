package preflight_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"lingokit/internal/preflight"
	"lingokit/internal/testsupport"
)

func TestCheckDirectoryAccessOK(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccessMissing(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "missing"))
	if result.Passed {
		t.Fatal("expected failure for missing directory")
	}
}

func TestCheckDirectoryAccessRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result := preflight.CheckDirectoryAccess("test", path)
	if result.Passed {
		t.Fatal("expected failure for regular file")
	}
}

func TestCheckFreeDiskSpaceDisabled(t *testing.T) {
	result := preflight.CheckFreeDiskSpace(t.TempDir(), 0)
	if !result.Passed {
		t.Fatalf("expected disabled check to pass, got: %s", result.Detail)
	}
}

func TestCheckFreeDiskSpaceImpossibleThreshold(t *testing.T) {
	// No test filesystem has an exabyte free.
	result := preflight.CheckFreeDiskSpace(t.TempDir(), 1<<30)
	if result.Passed {
		t.Fatalf("expected failure for impossible threshold, got: %s", result.Detail)
	}
}

func TestRunAllReportsStoreAndBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	cfg.Workflow.MinFreeDiskSpaceGB = 0

	results := preflight.RunAll(context.Background(), cfg, store)
	if preflight.Failed(results) {
		for _, result := range results {
			t.Logf("%s: passed=%v detail=%s", result.Name, result.Passed, result.Detail)
		}
		t.Fatal("expected all checks to pass")
	}

	names := make(map[string]bool, len(results))
	for _, result := range results {
		names[result.Name] = true
	}
	for _, want := range []string{"Media directory", "Job database", "uvx", "FFmpeg"} {
		if !names[want] {
			t.Fatalf("missing check %q in results", want)
		}
	}
}

func TestRunAllFlagsMissingBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	t.Setenv("PATH", t.TempDir())
	cfg.Workflow.MinFreeDiskSpaceGB = 0

	results := preflight.RunAll(context.Background(), cfg, nil)
	if !preflight.Failed(results) {
		t.Fatal("expected failures with an empty PATH")
	}
}
