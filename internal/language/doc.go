// Package language maps caller-facing language tags to the engine-native
// NLLB codes the translation engine expects.
//
// Resolution is a fixed table, not a general BCP 47 matcher: submissions use
// short ISO-style tags ("hi", "ta"), NLLB codes pass through unchanged, and
// anything unrecognized silently falls back to English so a bad tag degrades
// to a no-op translation instead of failing the job.
package language
