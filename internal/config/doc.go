// Package config loads, normalizes, and validates barrel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the BARREL_DATA_DIR environment
// fallback. The Config type centralizes the campaign definition (payload
// pair, flight days, product columns), merge tolerances and detection
// parameters so the CLI and workflow receive them in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
