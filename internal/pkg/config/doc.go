// Package config provides functionality for loading and managing application configuration.
//
// Settings are read from a YAML file with environment variable overrides,
// validated and handed to the rest of the application as typed structs.
// Each settings struct owns its own Validate method so misconfiguration is
// caught at startup rather than at first use.
package config
