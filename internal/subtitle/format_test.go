package subtitle_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lingokit/internal/subtitle"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		sep     string
		want    string
	}{
		{0, ",", "00:00:00,000"},
		{1.5, ",", "00:00:01,500"},
		{3661.25, ",", "01:01:01,250"},
		{3661.25, ".", "01:01:01.250"},
		{-5, ",", "00:00:00,000"},
		{36000.5, ",", "10:00:00,500"},
	}
	for _, tc := range cases {
		if got := subtitle.FormatTimestamp(tc.seconds, tc.sep); got != tc.want {
			t.Fatalf("FormatTimestamp(%v, %q) = %q, want %q", tc.seconds, tc.sep, got, tc.want)
		}
	}
}

func TestRenderSRT(t *testing.T) {
	segments := []subtitle.Segment{
		{Start: 0, End: 2.5, Text: " Hello there. "},
		{Start: 2.5, End: 5, Text: "Second cue"},
	}
	got := subtitle.RenderSRT(segments)
	want := "1\n00:00:00,000 --> 00:00:02,500\nHello there.\n\n2\n00:00:02,500 --> 00:00:05,000\nSecond cue\n\n"
	if got != want {
		t.Fatalf("unexpected SRT:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderVTT(t *testing.T) {
	segments := []subtitle.Segment{
		{Start: 0, End: 2.5, Text: "Hello there."},
	}
	got := subtitle.RenderVTT(segments)
	if !strings.HasPrefix(got, "WEBVTT\n\n") {
		t.Fatalf("missing WEBVTT header: %q", got)
	}
	if !strings.Contains(got, "00:00:00.000 --> 00:00:02.500") {
		t.Fatalf("expected period separator: %q", got)
	}
	if strings.Contains(got, "1\n00:00") {
		t.Fatalf("VTT cues must not be numbered: %q", got)
	}
}

func TestRenderZeroValueSegments(t *testing.T) {
	got := subtitle.RenderSRT([]subtitle.Segment{{}})
	if !strings.Contains(got, "00:00:00,000 --> 00:00:00,000") {
		t.Fatalf("zero segment should render zero timecodes: %q", got)
	}
}

func TestWriteSRTCreatesDirectoriesAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.srt")
	segments := []subtitle.Segment{
		{Start: 0, End: 1, Text: "one"},
		{Start: 1, End: 2, Text: "two"},
	}

	if err := subtitle.WriteSRT(path, segments); err != nil {
		t.Fatalf("WriteSRT failed: %v", err)
	}

	count, err := subtitle.CountCues(path)
	if err != nil {
		t.Fatalf("CountCues failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 cues, got %d", count)
	}

	last, err := subtitle.LastTimestamp(path)
	if err != nil {
		t.Fatalf("LastTimestamp failed: %v", err)
	}
	if last != 2 {
		t.Fatalf("expected last timestamp 2s, got %f", last)
	}
}

func TestWriteVTTEmptySegments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.vtt")
	if err := subtitle.WriteVTT(path, nil); err != nil {
		t.Fatalf("WriteVTT failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read vtt: %v", err)
	}
	if string(data) != "WEBVTT\n\n" {
		t.Fatalf("unexpected empty vtt: %q", data)
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := subtitle.ParseTimestamp("01:02:03,456")
	if err != nil {
		t.Fatalf("ParseTimestamp failed: %v", err)
	}
	want := 3723.456
	if diff := got - want; diff > 0.0001 || diff < -0.0001 {
		t.Fatalf("ParseTimestamp = %f, want %f", got, want)
	}
	if _, err := subtitle.ParseTimestamp("nonsense"); err == nil {
		t.Fatal("expected parse error")
	}
}
