// Package engine owns the lifecycle of the transcription and translation
// engines. Construction is deferred until first use and guarded by a mutex;
// a failed construction leaves the slot empty so a later call can retry once
// the operator fixes the environment.
package engine

import (
	"context"
	"log/slog"
	"net/url"
	"os/exec"
	"sync"

	"lingokit/internal/config"
	"lingokit/internal/logging"
	"lingokit/internal/services"
	"lingokit/internal/services/nllb"
	"lingokit/internal/services/whisperx"
)

// Registry hands out shared engine instances.
type Registry struct {
	cfg    *config.Config
	logger *slog.Logger

	mu          sync.Mutex
	transcriber *whisperx.Service
	translator  *nllb.Client
}

// NewRegistry creates an empty registry; engines are constructed on demand.
func NewRegistry(cfg *config.Config, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Registry{cfg: cfg, logger: logger}
}

// Transcriber returns the shared WhisperX service, constructing it on first
// use.
func (r *Registry) Transcriber(ctx context.Context) (*whisperx.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.transcriber != nil {
		return r.transcriber, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := exec.LookPath(whisperx.UVXCommand); err != nil {
		return nil, services.Wrap(services.ErrModelInit, "transcribe", "engine_init",
			"uvx not found; install uv (https://docs.astral.sh/uv/) to run WhisperX", err)
	}
	svc := whisperx.NewService(whisperx.Config{
		Model:       r.cfg.Transcriber.Model,
		CUDAEnabled: r.cfg.Transcriber.CUDAEnabled,
		CacheDir:    r.cfg.Transcriber.CacheDir,
	})
	r.logger.InfoContext(ctx, "transcription engine ready",
		logging.String("model", svc.Model()),
		logging.Bool("cuda", svc.CUDAEnabled()))
	r.transcriber = svc
	return svc, nil
}

// Translator returns the shared NLLB client, constructing it on first use.
func (r *Registry) Translator(ctx context.Context) (*nllb.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.translator != nil {
		return r.translator, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parsed, err := url.Parse(r.cfg.Translator.BaseURL)
	if err != nil || !parsed.IsAbs() {
		return nil, services.Wrap(services.ErrModelInit, "translate", "engine_init",
			"translator.base_url must be an absolute URL pointing at an NLLB serving endpoint", err)
	}
	client := nllb.NewClient(nllb.Config{
		BaseURL:        r.cfg.Translator.BaseURL,
		Model:          r.cfg.Translator.Model,
		APIKey:         r.cfg.Translator.APIKey,
		TimeoutSeconds: r.cfg.Translator.TimeoutSeconds,
		MaxChars:       r.cfg.Translator.MaxChars,
	})
	r.logger.InfoContext(ctx, "translation engine ready",
		logging.String("model", client.Model()),
		logging.String("endpoint", r.cfg.Translator.BaseURL))
	r.translator = client
	return client, nil
}
