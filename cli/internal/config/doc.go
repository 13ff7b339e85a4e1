// Package config loads the zusistats CLI configuration.
//
// A YAML file is optional: Default returns the built-in settings, Load
// overlays a file on top of them, and Override applies command-line flags
// last. Validate must pass before the config is used.
package config
