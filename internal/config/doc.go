// Package config loads the engine configuration from an optional YAML file
// and environment variable overrides.
package config
