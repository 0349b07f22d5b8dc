package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"lingokit/internal/config"
	"lingokit/internal/jobs"
	"lingokit/internal/logging"
	"lingokit/internal/pipeline"
	"lingokit/internal/preflight"
	"lingokit/internal/server"
)

// Daemon coordinates the background services and enforces single-instance
// execution through a file lock.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *jobs.Store
	pipeline *pipeline.Manager
	api      *server.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *jobs.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	pl := pipeline.NewManager(cfg, store, logger)
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		pipeline: pl,
		api:      server.New(cfg, store, pl, logger),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}, nil
}

// Start acquires the instance lock, recovers interrupted jobs, runs preflight
// checks, and launches the worker pool and API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another lingokit daemon instance is already running")
	}

	// Jobs left RUNNING by a crash or restart can never finish; surface them
	// as errors instead of letting them sit in-flight forever.
	interrupted, err := d.store.MarkInterrupted(ctx)
	if err != nil {
		d.releaseLock()
		return fmt.Errorf("recover interrupted jobs: %w", err)
	}
	if interrupted > 0 {
		d.logger.Warn("marked interrupted jobs as failed",
			logging.Int64("count", interrupted),
			logging.String(logging.FieldEventType, "startup_recovery"),
		)
	}

	results := preflight.RunAll(ctx, d.cfg, d.store)
	for _, result := range results {
		if result.Passed {
			continue
		}
		d.logger.Error("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		)
	}
	if preflight.Failed(results) {
		d.releaseLock()
		return errors.New("preflight checks failed, refusing to start")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.pipeline.Start(runCtx); err != nil {
		cancel()
		d.releaseLock()
		return fmt.Errorf("start pipeline: %w", err)
	}
	if err := d.api.Start(runCtx); err != nil {
		d.pipeline.Stop()
		cancel()
		d.releaseLock()
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("lingokit daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.api.Addr()),
	)
	return nil
}

// Stop shuts down the API server and worker pool and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.Stop()
	d.pipeline.Stop()
	d.releaseLock()
	d.running.Store(false)
	d.logger.Info("lingokit daemon stopped")
}

// Close stops the daemon and closes the job store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}

// Addr returns the bound API address once started.
func (d *Daemon) Addr() string {
	return d.api.Addr()
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}
