// Package config loads, normalizes, and validates tci configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TCI_DATA_DIR. The Config type centralizes every knob the CLI and the
// interpretation packages need: where the state database lives, how the
// experimental record is laid out, which capture extensions are accepted, and
// specimen defaults handed to the moduli adapter.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
