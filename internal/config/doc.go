// Package config defines the application configuration structures and the
// loader that populates them from environment variables (PLANKY_ prefix)
// and an optional YAML config file, with struct-tag validation.
package config
