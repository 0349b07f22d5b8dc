package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"lingokit/internal/config"
	"lingokit/internal/deps"
	"lingokit/internal/jobs"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every startup check for the given config. A nil store skips
// the database check (used by the CLI, which has no database handle).
func RunAll(ctx context.Context, cfg *config.Config, store *jobs.Store) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Media directory", cfg.Paths.MediaDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckFreeDiskSpace(cfg.Paths.MediaDir, cfg.Workflow.MinFreeDiskSpaceGB))

	for _, status := range deps.CheckBinaries(deps.DefaultRequirements(cfg)) {
		results = append(results, Result{
			Name:   status.Name,
			Passed: status.Available || status.Optional,
			Detail: status.Detail,
		})
	}

	if store != nil {
		results = append(results, CheckStore(ctx, store))
	}
	return results
}

// Failed reports whether any check did not pass.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return true
		}
	}
	return false
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeDiskSpace verifies the filesystem holding path has at least minGB
// gigabytes available. minGB <= 0 disables the check.
func CheckFreeDiskSpace(path string, minGB int) Result {
	const name = "Free disk space"
	if minGB <= 0 {
		return Result{Name: name, Passed: true, Detail: "check disabled"}
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	freeBytes := stat.Bavail * uint64(stat.Bsize)
	minBytes := uint64(minGB) * 1 << 30
	detail := fmt.Sprintf("%.1f GiB free, %d GiB required", float64(freeBytes)/float64(1<<30), minGB)
	if freeBytes < minBytes {
		return Result{Name: name, Detail: detail}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckStore verifies the job database answers a trivial query.
func CheckStore(ctx context.Context, store *jobs.Store) Result {
	const name = "Job database"
	if err := store.Health(ctx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: "reachable"}
}
