// Package config loads, validates, and normalizes framecast configuration.
//
// Configuration comes from a TOML file (~/.config/framecast/config.toml by
// default, or ./framecast.toml) merged over built-in defaults. All path
// fields are expanded and made absolute during load so downstream code never
// sees "~" or relative paths.
package config
