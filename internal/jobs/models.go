package jobs

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a job.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusRunning Status = "RUNNING"
	StatusDone    Status = "DONE"
	StatusError   Status = "ERROR"
)

// InterruptedMessage is the error message set on RUNNING jobs found at startup.
const InterruptedMessage = "interrupted by daemon restart"

// JobType distinguishes audio submissions from video submissions.
type JobType string

const (
	TypeAudio JobType = "audio"
	TypeVideo JobType = "video"
)

var allStatuses = []Status{
	StatusPending,
	StatusRunning,
	StatusDone,
	StatusError,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Job represents a translation job persisted in SQLite.
type Job struct {
	ID              string
	JobType         JobType
	Status          Status
	TargetLang      string
	InputPath       string
	TranscriptText  string
	TranslationText string
	SRTPath         string
	VTTPath         string
	DubbedAudioPath string
	DubbedVideoPath string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// APIKey represents a stored API key. The raw key is shown once at creation
// and only its SHA-256 hash is persisted.
type APIKey struct {
	ID        string
	Name      string
	KeyHash   string
	Scopes    []string
	Revoked   bool
	CreatedAt time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether the status can no longer change.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusError
}

// ParseJobType converts a string into a known JobType.
func ParseJobType(value string) (JobType, bool) {
	normalized := JobType(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case TypeAudio, TypeVideo:
		return normalized, true
	default:
		return "", false
	}
}
