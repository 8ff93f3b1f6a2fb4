// Package config provides configuration structures and utilities for vncfetch.
// It defines the resolver endpoint, HTTP client settings, output locations
// and logging preferences, and loads overrides from a YAML file and the
// environment.
package config
