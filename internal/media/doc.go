// Package media turns arbitrary audio and video inputs into the mono 16 kHz
// PCM the transcription engine consumes.
//
// Normalization shells out to ffmpeg, resolved through an ordered candidate
// chain (configured binary, PATH, configured fallback); the first candidate
// that completes wins. URL sources are fetched the same way with a stream
// copy. Decoding reads the resulting WAV container directly: the container is
// always produced by our own ffmpeg invocation, so only 16-bit PCM needs to
// be understood.
package media
