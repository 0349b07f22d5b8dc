package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"

	"lingokit/internal/jobs"
	"lingokit/internal/language"
	"lingokit/internal/logging"
	"lingokit/internal/media"
	"lingokit/internal/services"
	"lingokit/internal/subtitle"
)

// Artifact file names inside a job's working directory.
const (
	SRTName = "subtitles.srt"
	VTTName = "subtitles.vtt"
)

type result struct {
	transcript  string
	translation string
	srtPath     string
	vttPath     string
}

// Process runs a claimed job through every stage and persists the outcome.
// The job must already be RUNNING; terminal rows are written exactly once.
func (m *Manager) Process(ctx context.Context, job *jobs.Job) {
	logger := m.logger.With(
		logging.String(logging.FieldJobID, job.ID),
		logging.String("target_lang", job.TargetLang),
	)
	ctx = services.WithJobID(ctx, job.ID)
	logger.Info("job started", logging.String(logging.FieldEventType, "job_started"))

	res, err := m.run(ctx, logger, job)
	if err != nil {
		m.handleFailure(ctx, logger, job, err)
		return
	}

	job.Status = jobs.StatusDone
	job.TranscriptText = res.transcript
	job.TranslationText = res.translation
	job.SRTPath = res.srtPath
	job.VTTPath = res.vttPath
	job.ErrorMessage = ""
	if err := m.store.Update(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not persist job completion")
			return
		}
		logger.Error("failed to persist job completion", logging.Error(err))
		return
	}
	logger.Info("job completed", logging.String(logging.FieldEventType, "job_completed"))
	if err := m.notifier.NotifyJobCompleted(ctx, job.ID, job.TargetLang); err != nil {
		logger.Warn("completion notification failed", logging.Error(err))
	}
}

func (m *Manager) run(ctx context.Context, logger *slog.Logger, job *jobs.Job) (res result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v\n%s", r, debug.Stack())
		}
	}()

	workDir := filepath.Join(m.cfg.JobsDir(), job.ID)

	wavPath, err := m.normalizer.Normalize(services.WithStage(ctx, "normalize"), job.InputPath, workDir)
	if err != nil {
		return res, err
	}

	samples, info, err := media.DecodePCM(wavPath)
	if err != nil {
		return res, err
	}
	if info.SampleRate != media.TargetSampleRate {
		logger.Warn("unexpected sample rate in normalized audio",
			logging.Int("sample_rate", info.SampleRate),
			logging.Int("expected", media.TargetSampleRate),
		)
	}

	transcriber, err := m.engines.Transcriber(ctx)
	if err != nil {
		return res, err
	}
	transcription, err := transcriber.Transcribe(services.WithStage(ctx, "transcribe"), samples, workDir, "")
	if err != nil {
		return res, err
	}
	res.transcript = transcription.Text

	// Speechless audio still completes: empty transcript, empty subtitles.
	// The transcript is translated as one document; subtitle cues keep the
	// transcription's timed text.
	if strings.TrimSpace(res.transcript) != "" {
		res.translation, err = m.translateTranscript(ctx, job.TargetLang, res.transcript)
		if err != nil {
			return res, err
		}
	}

	srtPath := filepath.Join(workDir, SRTName)
	if err := subtitle.WriteSRT(srtPath, transcription.Segments); err != nil {
		return res, fmt.Errorf("render srt: %w", err)
	}
	vttPath := filepath.Join(workDir, VTTName)
	if err := subtitle.WriteVTT(vttPath, transcription.Segments); err != nil {
		return res, fmt.Errorf("render vtt: %w", err)
	}
	res.srtPath = srtPath
	res.vttPath = vttPath
	return res, nil
}

func (m *Manager) translateTranscript(ctx context.Context, targetLang, text string) (string, error) {
	translator, err := m.engines.Translator(ctx)
	if err != nil {
		return "", err
	}
	ctx = services.WithStage(ctx, "translate")
	return translator.Translate(ctx, text, language.EnglishCode, language.Resolve(targetLang))
}

func (m *Manager) handleFailure(ctx context.Context, logger *slog.Logger, job *jobs.Job, jobErr error) {
	message := failureMessage(jobErr)
	logger.Error("job failed",
		logging.Error(jobErr),
		logging.String(logging.FieldEventType, "job_failed"),
		logging.String("error_marker", services.Marker(jobErr)),
	)

	job.Status = jobs.StatusError
	job.ErrorMessage = message
	if err := m.store.Update(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) {
			// Restart recovery marks the row interrupted instead.
			logger.Debug("daemon shutting down, could not persist job failure")
			return
		}
		logger.Error("failed to persist job failure", logging.Error(err))
		return
	}
	if err := m.notifier.NotifyJobFailed(ctx, job.ID, message); err != nil {
		logger.Warn("failure notification failed", logging.Error(err))
	}
}

func failureMessage(err error) string {
	if err == nil {
		return "job failed without error detail"
	}
	message := strings.TrimSpace(err.Error())
	if message == "" {
		return "job failed without error detail"
	}
	return services.Marker(err) + ": " + message
}
