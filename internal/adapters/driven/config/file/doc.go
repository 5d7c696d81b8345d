// Package file loads run settings from a YAML or TOML configuration file.
//
// The format is chosen by extension: .yml and .yaml are YAML, .toml is TOML.
// A .env file next to the configuration is read for environment overrides;
// variables already set in the process environment take precedence.
package file
