// Package jobs persists translation jobs and API keys in SQLite.
//
// The Store manages database connections, schema initialization, status
// transitions, and startup recovery. Job rows capture the submitted input,
// the transcript and translation produced by the pipeline, and the subtitle
// artifact paths, so the HTTP status endpoint can answer from a single read.
//
// The claim path is the only place a job moves from PENDING to RUNNING, and
// it happens in one conditional update so concurrent workers never run the
// same job. Terminal states (DONE, ERROR) are immutable.
//
// Treat this package as the single source of truth for job semantics; when
// you add new statuses or columns, update schema.sql and bump schemaVersion.
package jobs
