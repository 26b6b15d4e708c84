// Package config holds wikigraph's configuration: compiled-in defaults,
// the Config struct populated from CLI flags, validation, XDG directory
// resolution, and the optional YAML config file.
//
// Precedence, lowest to highest: built-in defaults, config file values,
// CLI flags. The config file is searched at an explicit --config path,
// then ./.wikigraph.yaml, then the XDG config directory.
package config
