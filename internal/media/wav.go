package media

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"lingokit/internal/services"
)

// TargetSampleRate is the rate normalization produces and transcription expects.
const TargetSampleRate = 16000

// SampleInfo describes the decoded audio stream.
type SampleInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	Frames        int
}

const wavFormatPCM = 1

// DecodePCM reads a WAV file and returns mono float32 samples in [-1, 1].
// Multi-channel audio is averaged down to mono. Only 16-bit PCM is accepted;
// anything else is an unsupported format. A sample rate other than 16 kHz is
// reported in SampleInfo but is not an error.
func DecodePCM(path string) ([]float32, SampleInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, SampleInfo{}, services.Wrap(services.ErrTransient, "decode", "read", path, err)
	}
	return decodePCMBytes(data)
}

func decodePCMBytes(data []byte) ([]float32, SampleInfo, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, SampleInfo{}, services.Wrap(services.ErrUnsupportedFormat, "decode", "", "not a RIFF/WAVE file", nil)
	}

	var info SampleInfo
	var pcm []byte
	haveFmt := false

	// Walk chunks; fmt and data can appear in any order and other chunks
	// (LIST, fact) may sit between them.
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return nil, SampleInfo{}, services.Wrap(services.ErrUnsupportedFormat, "decode", "", fmt.Sprintf("truncated %q chunk", chunkID), nil)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, SampleInfo{}, services.Wrap(services.ErrUnsupportedFormat, "decode", "", "fmt chunk too short", nil)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != wavFormatPCM {
				return nil, SampleInfo{}, services.Wrap(services.ErrUnsupportedFormat, "decode", "", fmt.Sprintf("compression format %d, want PCM", format), nil)
			}
			info.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			pcm = data[body : body+chunkSize]
		}

		// Chunks are word-aligned.
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFmt || pcm == nil {
		return nil, SampleInfo{}, services.Wrap(services.ErrUnsupportedFormat, "decode", "", "missing fmt or data chunk", nil)
	}
	if info.BitsPerSample != 16 {
		return nil, info, services.Wrap(services.ErrUnsupportedFormat, "decode", "", fmt.Sprintf("unexpected sample width: %d bits", info.BitsPerSample), nil)
	}
	if info.Channels < 1 {
		return nil, info, services.Wrap(services.ErrUnsupportedFormat, "decode", "", "no channels", nil)
	}

	sampleCount := len(pcm) / 2
	info.Frames = sampleCount / info.Channels

	samples := make([]float32, info.Frames)
	for frame := 0; frame < info.Frames; frame++ {
		var sum int32
		base := frame * info.Channels * 2
		for ch := 0; ch < info.Channels; ch++ {
			sample := int16(binary.LittleEndian.Uint16(pcm[base+ch*2 : base+ch*2+2]))
			sum += int32(sample)
		}
		value := float32(sum/int32(info.Channels)) / 32768.0
		if value > 1 {
			value = 1
		} else if value < -1 {
			value = -1
		}
		samples[frame] = value
	}

	return samples, info, nil
}

// EncodeWAV writes mono float32 samples in [-1, 1] as 16-bit PCM.
func EncodeWAV(w io.Writer, samples []float32, sampleRate int) error {
	dataSize := len(samples) * 2

	var header bytes.Buffer
	header.WriteString("RIFF")
	binary.Write(&header, binary.LittleEndian, uint32(36+dataSize))
	header.WriteString("WAVE")
	header.WriteString("fmt ")
	binary.Write(&header, binary.LittleEndian, uint32(16))
	binary.Write(&header, binary.LittleEndian, uint16(wavFormatPCM))
	binary.Write(&header, binary.LittleEndian, uint16(1))
	binary.Write(&header, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&header, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&header, binary.LittleEndian, uint16(2))
	binary.Write(&header, binary.LittleEndian, uint16(16))
	header.WriteString("data")
	binary.Write(&header, binary.LittleEndian, uint32(dataSize))
	if _, err := w.Write(header.Bytes()); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}

	pcm := make([]byte, dataSize)
	for i, sample := range samples {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(sample*32767)))
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	return nil
}

// WriteWAVFile writes mono samples to a WAV file on disk.
func WriteWAVFile(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer f.Close()

	if err := EncodeWAV(f, samples, sampleRate); err != nil {
		return err
	}
	return f.Close()
}
