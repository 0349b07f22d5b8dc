// Package config loads, normalizes, and validates lingokit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LINGOKIT_MASTER_KEY. The Config type centralizes every knob the daemon and
// CLI need, so media directories and engine endpoints are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
