// Package config loads and validates the TOML configuration for cinesift.
//
// Configuration resolution order: an explicit --config path, a cinesift.toml
// in the working directory, then ~/.config/cinesift/config.toml. Missing
// files fall back to Default(). The TMDB API key may be supplied through the
// TMDB_API_KEY environment variable.
package config
