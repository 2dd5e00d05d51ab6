// Package config loads, normalizes, and validates ytscribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads .env files, and honours environment
// fallbacks such as OPENAI_API_KEY. The Config type centralizes every knob the
// CLI and the transcription workflow need, so output/work directories and
// external service credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
