// Package config builds the process-wide configuration for sheettodo.
//
// Settings come from, in increasing precedence:
//   - built-in defaults
//   - a YAML file (sheettodo.yaml or the path given with --config)
//   - a .env file in the working directory
//   - environment variables
//
// The resulting Config is constructed once at startup and passed to the
// components that need it.
package config
