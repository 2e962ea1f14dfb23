package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Details DetailsConfig `mapstructure:"details"`
	Filters FilterConfig  `mapstructure:"filters"`
	Logging LoggingConfig `mapstructure:"logging"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// APIConfig holds Watchmode API connection details
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	APIKey    string        `mapstructure:"api_key" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gte=0"`
	RateLimit float64       `mapstructure:"rate_limit" validate:"gte=0"`
	Burst     int           `mapstructure:"burst" validate:"gte=0"`
}

// CatalogConfig controls how the home catalog is aggregated
type CatalogConfig struct {
	PageSize       int           `mapstructure:"page_size" validate:"gte=1,lte=250"`
	SortBy         string        `mapstructure:"sort_by" validate:"required"`
	FanOut         string        `mapstructure:"fan_out" validate:"oneof=bounded all none"`
	DetailLimit    int           `mapstructure:"detail_limit" validate:"gte=0"`
	Concurrency    int           `mapstructure:"concurrency" validate:"gte=1,lte=50"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
	ListFailure    string        `mapstructure:"list_failure" validate:"oneof=degrade fail"`
	LoadTimeout    time.Duration `mapstructure:"load_timeout" validate:"gte=0"`
}

// DetailsConfig controls single title lookups
type DetailsConfig struct {
	MissPolicy string `mapstructure:"miss_policy" validate:"oneof=cache remote"`
}

// FilterConfig maps filter names to expressions usable with --filter
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Color  bool   `mapstructure:"color"`
}
