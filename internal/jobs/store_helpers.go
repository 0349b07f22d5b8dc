package jobs

import (
	"database/sql"
	"errors"
	"time"
)

const jobColumns = "id, job_type, status, target_lang, input_path, transcript_text, translation_text, srt_path, vtt_path, dubbed_audio_path, dubbed_video_path, error_message, created_at, updated_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id          string
		jobType     string
		statusStr   string
		targetLang  string
		inputPath   sql.NullString
		transcript  sql.NullString
		translation sql.NullString
		srtPath     sql.NullString
		vttPath     sql.NullString
		dubbedAudio sql.NullString
		dubbedVideo sql.NullString
		errMessage  sql.NullString
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&jobType,
		&statusStr,
		&targetLang,
		&inputPath,
		&transcript,
		&translation,
		&srtPath,
		&vttPath,
		&dubbedAudio,
		&dubbedVideo,
		&errMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:              id,
		JobType:         JobType(jobType),
		Status:          Status(statusStr),
		TargetLang:      targetLang,
		InputPath:       inputPath.String,
		TranscriptText:  transcript.String,
		TranslationText: translation.String,
		SRTPath:         srtPath.String,
		VTTPath:         vttPath.String,
		DubbedAudioPath: dubbedAudio.String,
		DubbedVideoPath: dubbedVideo.String,
		ErrorMessage:    errMessage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		job.UpdatedAt = updated
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
