package subtitle

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// CountCues counts timed cues in a subtitle file by its "-->" lines. Works
// for both SRT and WebVTT.
func CountCues(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read subtitle: %w", err)
	}
	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, "-->") {
			count++
		}
	}
	return count, nil
}

// ParseTimestamp parses HH:MM:SS,mmm or HH:MM:SS.mmm into seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ",", ".")

	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("timestamp %q: want HH:MM:SS", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: bad hours", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: bad minutes", value)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: bad seconds", value)
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

// LastTimestamp returns the largest cue end time in a subtitle file.
func LastTimestamp(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read subtitle: %w", err)
	}
	var last float64
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			continue
		}
		seconds, err := ParseTimestamp(parts[1])
		if err != nil {
			continue
		}
		if seconds > last {
			last = seconds
		}
	}
	return last, nil
}
