package deps

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"lingokit/internal/config"
)

// ResolveFFmpeg returns the transcoder binary the pipeline will execute.
//
// Candidates are tried in a fixed order: the explicitly configured binary,
// "ffmpeg" from PATH, then the configured fallback binary (a bundled or
// statically linked build). The first one that resolves wins. Exhaustion
// returns an error naming every candidate so the operator knows what to
// install.
func ResolveFFmpeg(cfg *config.Config) (string, error) {
	candidates := FFmpegCandidates(cfg)
	tried := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		resolved, ok := resolveBinary(candidate)
		if ok {
			return resolved, nil
		}
		tried = append(tried, candidate)
	}
	return "", fmt.Errorf("no ffmpeg found, tried: %s (install ffmpeg or set media.ffmpeg_binary)", strings.Join(tried, ", "))
}

// FFmpegCandidates returns the ordered transcoder candidates for a config.
func FFmpegCandidates(cfg *config.Config) []string {
	var candidates []string
	if cfg != nil && cfg.Media.FFmpegBinary != "" {
		candidates = append(candidates, cfg.Media.FFmpegBinary)
	}
	candidates = append(candidates, "ffmpeg")
	if cfg != nil && cfg.Media.FFmpegFallbackBinary != "" {
		candidates = append(candidates, cfg.Media.FFmpegFallbackBinary)
	}
	return candidates
}

// FFmpegStatus reports the transcoder binary availability for status output.
func FFmpegStatus(cfg *config.Config) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Extracts and resamples audio",
	}

	resolved, err := ResolveFFmpeg(cfg)
	if err != nil {
		result.Command = "ffmpeg"
		result.Available = false
		result.Detail = err.Error()
		return result
	}
	result.Command = resolved
	result.Available = true
	return result
}

func resolveBinary(candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", false
	}
	if strings.ContainsRune(candidate, os.PathSeparator) {
		info, err := os.Stat(candidate)
		if err == nil && isExecutable(info) {
			return candidate, true
		}
		return "", false
	}
	resolved, err := exec.LookPath(candidate)
	if err != nil {
		return "", false
	}
	return resolved, true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
