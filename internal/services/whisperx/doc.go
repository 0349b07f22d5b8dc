// Package whisperx runs WhisperX transcription through uvx and parses its
// JSON output into timed segments.
package whisperx
