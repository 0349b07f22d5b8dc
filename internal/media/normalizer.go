package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"lingokit/internal/config"
	"lingokit/internal/deps"
	"lingokit/internal/logging"
	"lingokit/internal/services"
)

// NormalizedName is the filename of the normalized audio inside a job workspace.
const NormalizedName = "audio_16k_mono.wav"

// Normalizer converts submitted media into transcription-ready WAV files.
type Normalizer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewNormalizer constructs a Normalizer.
func NewNormalizer(cfg *config.Config, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "media"),
	}
}

// Normalize transcodes inputPath into a mono 16 kHz PCM16 WAV under workDir
// and returns the output path. Transcoder candidates are tried in order;
// any candidate that fails, for whatever reason, falls through to the next.
func (n *Normalizer) Normalize(ctx context.Context, inputPath, workDir string) (string, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrTransient, "normalize", "workdir", "create work directory", err)
	}
	outPath := filepath.Join(workDir, NormalizedName)

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputPath,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		outPath,
	}

	err := n.runChain(ctx, "normalize", args)
	if err != nil {
		return "", err
	}
	return outPath, nil
}

// FetchURL downloads a remote source to destPath using a stream copy. The
// download honours the configured timeout. Failures reject the submission.
func (n *Normalizer) FetchURL(ctx context.Context, url, destPath string) error {
	if strings.TrimSpace(url) == "" {
		return services.Wrap(services.ErrValidation, "download", "", "url is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "download", "workdir", "create shared directory", err)
	}

	timeout := time.Duration(n.cfg.Media.DownloadTimeout) * time.Second
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", url,
		"-c", "copy",
		destPath,
	}

	if err := n.runChain(fetchCtx, "download", args); err != nil {
		_ = os.Remove(destPath)
		return services.Wrap(services.ErrUpstreamFetch, "download", "", fmt.Sprintf("fetch %s", url), err)
	}
	return nil
}

// runChain executes ffmpeg with args, trying each candidate binary in order.
func (n *Normalizer) runChain(ctx context.Context, stage string, args []string) error {
	candidates := deps.FFmpegCandidates(n.cfg)
	var lastErr error
	tried := make([]string, 0, len(candidates))

	for _, candidate := range candidates {
		binary, err := exec.LookPath(candidate)
		if err != nil {
			tried = append(tried, candidate)
			lastErr = err
			continue
		}

		cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
		output, err := cmd.CombinedOutput()
		if err == nil {
			n.logger.Debug("transcoder succeeded",
				logging.String(logging.FieldStage, stage),
				logging.String("binary", binary))
			return nil
		}
		tried = append(tried, candidate)
		lastErr = fmt.Errorf("%s: %w: %s", binary, err, strings.TrimSpace(string(output)))
		if ctx.Err() != nil {
			break
		}
		n.logger.Warn("transcoder candidate failed, trying next",
			logging.String(logging.FieldStage, stage),
			logging.String("binary", binary),
			logging.Error(err))
	}

	return services.Wrap(
		services.ErrDependencyUnavailable,
		stage,
		"ffmpeg",
		fmt.Sprintf("no transcoder succeeded, tried: %s (install ffmpeg or set media.ffmpeg_binary)", strings.Join(tried, ", ")),
		lastErr,
	)
}
