// Package notifications pushes operator-facing job events to ntfy. When no
// topic is configured every notification is a no-op; API callers always learn
// job outcomes by polling, never through this channel.
package notifications
