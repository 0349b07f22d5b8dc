package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Segment is one timed span of transcript text. Times are seconds from the
// start of the media.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// FormatTimestamp renders seconds as HH:MM:SS<sep>mmm. Hours wider than two
// digits are kept intact. Negative inputs clamp to zero.
func FormatTimestamp(seconds float64, msSeparator string) string {
	if seconds < 0 {
		seconds = 0
	}
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	s := int(seconds) % 60
	ms := int((seconds - float64(int(seconds))) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", h, m, s, msSeparator, ms)
}

// RenderSRT renders segments as an SRT document with 1-based cue numbers.
func RenderSRT(segments []Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", FormatTimestamp(seg.Start, ","), FormatTimestamp(seg.End, ","))
		b.WriteString(strings.TrimSpace(seg.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}

// RenderVTT renders segments as a WebVTT document.
func RenderVTT(segments []Segment) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, seg := range segments {
		fmt.Fprintf(&b, "%s --> %s\n", FormatTimestamp(seg.Start, "."), FormatTimestamp(seg.End, "."))
		b.WriteString(strings.TrimSpace(seg.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}

// WriteSRT writes segments to path as SRT, creating parent directories.
func WriteSRT(path string, segments []Segment) error {
	return writeValidated(path, RenderSRT(segments), len(segments))
}

// WriteVTT writes segments to path as WebVTT, creating parent directories.
func WriteVTT(path string, segments []Segment) error {
	return writeValidated(path, RenderVTT(segments), len(segments))
}

func writeValidated(path, content string, wantCues int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create subtitle directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write subtitle file: %w", err)
	}
	got, err := CountCues(path)
	if err != nil {
		return fmt.Errorf("validate %s: %w", filepath.Base(path), err)
	}
	if got != wantCues {
		return fmt.Errorf("validate %s: wrote %d cues, expected %d", filepath.Base(path), got, wantCues)
	}
	return nil
}
