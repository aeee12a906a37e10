// Package config loads, normalizes, and validates gazette configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GAZETTE_BOT_TOKEN. The Config type centralizes every knob the pipeline and
// CLI need: the article source, translation target, template location,
// converter binary, Telegram channel, and dedup ledger path.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
