package whisperx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"lingokit/internal/media"
	"lingokit/internal/services"
	"lingokit/internal/subtitle"
)

const inputName = "whisper_input.wav"

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// CUDAEnabled returns whether CUDA is enabled.
func (s *Service) CUDAEnabled() bool {
	return s.cfg.CUDAEnabled
}

// Result contains the outcome of a transcription. Both fields may be empty
// when the audio carries no recognizable speech.
type Result struct {
	Segments []subtitle.Segment
	Text     string
}

// Transcribe writes samples to a mono 16kHz WAV in workDir, runs WhisperX on
// it, and parses the JSON output. lang is an ISO-639-1 hint; empty means
// autodetect.
func (s *Service) Transcribe(ctx context.Context, samples []float32, workDir, lang string) (Result, error) {
	var result Result

	if workDir == "" {
		return result, fmt.Errorf("transcribe: workDir required")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return result, fmt.Errorf("transcribe: ensure workDir: %w", err)
	}

	wavPath := filepath.Join(workDir, inputName)
	if err := media.WriteWAVFile(wavPath, samples, media.TargetSampleRate); err != nil {
		return result, fmt.Errorf("transcribe: write input: %w", err)
	}

	args := s.buildArgs(wavPath, workDir, lang)
	if err := s.run(ctx, UVXCommand, args...); err != nil {
		return result, services.Wrap(services.ErrTransient, "transcribe", "whisperx", "transcription run failed", err)
	}

	jsonPath := filepath.Join(workDir, strings.TrimSuffix(inputName, filepath.Ext(inputName))+".json")
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return result, fmt.Errorf("transcribe: read output: %w", err)
	}
	result.Segments = segments
	result.Text = joinSegmentText(segments)
	return result, nil
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)

	env := os.Environ()
	// Torch 2.6 changed torch.load default to weights_only=true, breaking
	// WhisperX/pyannote checkpoint loading.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	if s.cfg.CacheDir != "" {
		env = append(env, "HF_HOME="+s.cfg.CacheDir)
	}
	cmd.Env = env

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir, lang string) []string {
	args := make([]string, 0, 20)

	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", s.Model(),
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
	)

	if lang = strings.TrimSpace(lang); lang != "" && !strings.Contains(lang, "_") {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}

	return args
}

type payload struct {
	Segments []subtitle.Segment `json:"segments"`
}

// LoadSegments loads timed segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]subtitle.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var parsed payload
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	return parsed.Segments, nil
}

func joinSegmentText(segments []subtitle.Segment) string {
	var parts []string
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
