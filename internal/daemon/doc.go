// Package daemon ties the job store, pipeline workers, and HTTP API into a
// single-instance background process. Startup recovers jobs left RUNNING by
// a previous process and refuses to serve when preflight checks fail.
package daemon
