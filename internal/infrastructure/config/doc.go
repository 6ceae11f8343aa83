// Package config loads OpsDesk configuration from YAML with environment
// variable overrides.
//
// Loading order (later wins):
//  1. Hardcoded defaults
//  2. YAML file values
//  3. OPSDESK_* environment variables
//
// The console is designed to run with no config file at all: callers fall
// back to Default() when the file is absent, so a fresh checkout starts with
// a local ./data/opsdesk.db and text logs on stderr (stdout belongs to the
// interactive menus).
package config
