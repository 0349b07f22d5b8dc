// Package services defines the error taxonomy and context plumbing shared by
// the engine adapters and the job pipeline.
//
// Errors raised by stage code are wrapped with a sentinel marker so callers
// can classify failures without string matching, and with stage/operation
// detail so the persisted job error reads as a complete sentence. Context
// helpers carry the job ID and stage name so log lines stay correlated.
package services
