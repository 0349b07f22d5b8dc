// Package server exposes the HTTP API: job submission, polling, synchronous
// text translation, API key management, and artifact file serving. Every
// route except the health probe requires an X-API-Key header.
package server
