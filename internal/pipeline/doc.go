// Package pipeline drives queued jobs through the media stages: normalize,
// decode, transcribe, translate, and subtitle rendering. A bounded worker
// pool claims jobs from the store; results are persisted in a single update
// so a job is never observed with partial artifacts.
package pipeline
