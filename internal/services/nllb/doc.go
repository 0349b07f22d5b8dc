// Package nllb talks to an NLLB serving endpoint over HTTP. The client
// retries transient failures and truncates oversized inputs before sending.
package nllb
