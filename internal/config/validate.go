package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateEnrich(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSources() error {
	if c.Sources.MainCSV == "" {
		return errors.New("sources.main_csv must be set")
	}
	if c.Sources.ExtendedCSV == "" {
		return errors.New("sources.extended_csv must be set")
	}
	if c.Sources.RatingsJSON == "" {
		return errors.New("sources.ratings_json must be set")
	}
	if c.Sources.OutputCSV == "" {
		return errors.New("sources.output_csv must be set")
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if !c.Enrich.Enabled {
		return nil
	}
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/cinesift/config.toml"
		}
		return fmt.Errorf("tmdb.api_key is required when enrichment is enabled. Set TMDB_API_KEY env var or edit %s (create with 'cinesift config init')", defaultPath)
	}
	if c.TMDB.BaseURL == "" {
		return errors.New("tmdb.base_url must be set")
	}
	if c.TMDB.RequestTimeout <= 0 {
		return errors.New("tmdb.request_timeout must be positive")
	}
	if c.TMDB.MaxRetries <= 0 {
		return errors.New("tmdb.max_retries must be positive")
	}
	return nil
}

func (c *Config) validateEnrich() error {
	if c.Enrich.BatchSize <= 0 {
		return errors.New("enrich.batch_size must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
