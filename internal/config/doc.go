// Package config loads, normalizes, and validates Canvass configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TWILIO_ACCOUNT_SID. The Config type centralizes every knob the daemon and
// CLI need: provider credentials, the public callback URL, survey retry and
// eviction policy, and feedback archive settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
