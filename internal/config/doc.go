// Package config loads, normalizes, and validates mediasort configuration.
//
// It supplies repository defaults (including the shipped entity alias table),
// expands user paths, reads TOML files, and honours environment overrides such
// as MEDIASORT_SOURCE_ROOT and MEDIASORT_TARGET_ROOT. Command-line overrides
// are layered on top with Config.Apply, so the precedence is flag, then
// environment, then file, then default.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical extensions, and clear validation errors.
package config
