// Package config defines the optional installer settings and provides
// helpers to load and validate them from YAML.
//
// The download source is fixed and intentionally absent from Config.
package config
