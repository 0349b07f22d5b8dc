package media_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lingokit/internal/media"
	"lingokit/internal/services"
	"lingokit/internal/testsupport"
)

func TestDecodePCMMono16k(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	testsupport.WriteWAV(t, path, 16000, 1, 16, 1600)

	samples, info, err := media.DecodePCM(path)
	if err != nil {
		t.Fatalf("DecodePCM failed: %v", err)
	}
	if info.SampleRate != 16000 || info.Channels != 1 || info.BitsPerSample != 16 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if len(samples) != 1600 {
		t.Fatalf("expected 1600 samples, got %d", len(samples))
	}
	for i, s := range samples {
		if s < -1 || s > 1 {
			t.Fatalf("sample %d out of range: %f", i, s)
		}
	}
}

func TestDecodePCMAveragesStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	testsupport.WriteWAV(t, path, 16000, 2, 16, 800)

	samples, info, err := media.DecodePCM(path)
	if err != nil {
		t.Fatalf("DecodePCM failed: %v", err)
	}
	if info.Channels != 2 {
		t.Fatalf("expected 2 channels, got %d", info.Channels)
	}
	if len(samples) != 800 {
		t.Fatalf("expected 800 mono frames, got %d", len(samples))
	}
}

func TestDecodePCMRejectsNon16Bit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.wav")
	testsupport.WriteWAV(t, path, 16000, 1, 32, 100)

	_, _, err := media.DecodePCM(path)
	if err == nil {
		t.Fatal("expected error for 32-bit samples")
	}
	if !errors.Is(err, services.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestDecodePCMRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("this is not audio"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	_, _, err := media.DecodePCM(path)
	if !errors.Is(err, services.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestDecodePCMReportsOddSampleRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.wav")
	testsupport.WriteWAV(t, path, 44100, 1, 16, 441)

	_, info, err := media.DecodePCM(path)
	if err != nil {
		t.Fatalf("odd sample rate must not fail decode: %v", err)
	}
	if info.SampleRate != 44100 {
		t.Fatalf("expected 44100 reported, got %d", info.SampleRate)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "round.wav")
	original := []float32{0, 0.25, -0.25, 0.5, -0.5, 1, -1}

	if err := media.WriteWAVFile(path, original, media.TargetSampleRate); err != nil {
		t.Fatalf("WriteWAVFile failed: %v", err)
	}

	decoded, info, err := media.DecodePCM(path)
	if err != nil {
		t.Fatalf("DecodePCM failed: %v", err)
	}
	if info.SampleRate != media.TargetSampleRate || info.Channels != 1 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if len(decoded) != len(original) {
		t.Fatalf("expected %d samples, got %d", len(original), len(decoded))
	}
	for i := range original {
		diff := decoded[i] - original[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > 0.001 {
			t.Fatalf("sample %d drifted: %f vs %f", i, decoded[i], original[i])
		}
	}
}
