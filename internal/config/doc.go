// Package config loads, normalizes, and validates Vigil's TOML configuration.
package config
