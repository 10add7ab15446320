// Package config loads, normalizes, and validates flightsummary configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FLIGHTSUMMARY_TOOL_DIRS. The Config type centralizes the external tool names,
// the directories searched for them, worker and timeout knobs, the optional
// summary catalog, and logging output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
