// Package preflight provides readiness checks for the external tools,
// directories, and database the daemon depends on. The daemon runs them at
// startup and refuses to serve when a required check fails; the CLI status
// command reuses the individual checks for display.
package preflight
