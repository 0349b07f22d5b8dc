package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDependencyUnavailable marks failures caused by a missing or broken
	// external tool (ffmpeg, uvx).
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrUnsupportedFormat marks inputs the pipeline cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrModelInit marks transcription or translation engine construction
	// failures. These are retried on the next job that needs the engine.
	ErrModelInit = errors.New("model initialization failed")
	// ErrUpstreamFetch marks source URL download failures.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrValidation marks malformed submissions rejected before a job exists.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks lookups of jobs or keys that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks everything else.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Marker returns the taxonomy label for an error, used in logs and job rows.
func Marker(err error) string {
	switch {
	case errors.Is(err, ErrDependencyUnavailable):
		return "dependency_unavailable"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrModelInit):
		return "model_init"
	case errors.Is(err, ErrUpstreamFetch):
		return "upstream_fetch"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "transient"
	}
}

// IsSubmissionRejection reports whether the error should surface as a 400 at
// submission time instead of creating a failed job.
func IsSubmissionRejection(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrUpstreamFetch)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
