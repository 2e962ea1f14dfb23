package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/watchmode"
)

// EnvPrefix is prepended to every environment override, e.g. MARQUEE_API_API_KEY
const EnvPrefix = "MARQUEE"

// Load loads the configuration from file and environment. A missing config
// file is not an error when the environment supplies the required values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Shorthand for the one value almost everyone sets from the environment
	_ = v.BindEnv("api.api_key", EnvPrefix+"_API_API_KEY", EnvPrefix+"_API_KEY")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".marquee"))
		}

		// Check /etc
		v.AddConfigPath("/etc/marquee/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", watchmode.DefaultBaseURL)
	v.SetDefault("api.api_key", "")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.rate_limit", 0)
	v.SetDefault("api.burst", 1)

	// Catalog defaults
	v.SetDefault("catalog.page_size", catalog.DefaultPageSize)
	v.SetDefault("catalog.sort_by", watchmode.SortPopularityDesc)
	v.SetDefault("catalog.fan_out", catalog.FanOutBounded.String())
	v.SetDefault("catalog.detail_limit", catalog.DefaultDetailLimit)
	v.SetDefault("catalog.concurrency", catalog.DefaultConcurrency)
	v.SetDefault("catalog.request_timeout", catalog.DefaultRequestTimeout.String())
	v.SetDefault("catalog.list_failure", catalog.DegradeToEmpty.String())
	v.SetDefault("catalog.load_timeout", "30s")

	// Details defaults
	v.SetDefault("details.miss_policy", catalog.MissCacheOnly.String())

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.API.APIKey) == "" || cfg.API.APIKey == "your-api-key-here" {
		return fmt.Errorf("api.api_key must be set to a valid API key (or set %s_API_KEY)", EnvPrefix)
	}

	if err := validator.New().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid %s: %q fails %s", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag())
		}
		return err
	}

	// Validate named filters compile
	compiler := filter.NewCompiler(filter.WithCache(0))
	for name, expression := range cfg.Filters {
		if _, err := compiler.Compile(expression); err != nil {
			return fmt.Errorf("filters.%s: %w", name, err)
		}
	}

	return nil
}

// AggregatorOptions converts the catalog section into aggregator options
func (c CatalogConfig) AggregatorOptions() ([]catalog.AggregatorOption, error) {
	fanOut, err := catalog.ParseFanOutPolicy(c.FanOut)
	if err != nil {
		return nil, err
	}
	listFailure, err := catalog.ParseListFailurePolicy(c.ListFailure)
	if err != nil {
		return nil, err
	}

	return []catalog.AggregatorOption{
		catalog.WithPageSize(c.PageSize),
		catalog.WithSortBy(c.SortBy),
		catalog.WithFanOut(fanOut, c.DetailLimit),
		catalog.WithConcurrency(c.Concurrency),
		catalog.WithRequestTimeout(c.RequestTimeout),
		catalog.WithListFailurePolicy(listFailure),
	}, nil
}

// ResolverOptions converts the details section into resolver options
func (d DetailsConfig) ResolverOptions(requestTimeout time.Duration) ([]catalog.ResolverOption, error) {
	miss, err := catalog.ParseMissPolicy(d.MissPolicy)
	if err != nil {
		return nil, err
	}
	return []catalog.ResolverOption{
		catalog.WithMissPolicy(miss),
		catalog.WithResolveTimeout(requestTimeout),
	}, nil
}

// ClientOptions converts the api section into Watchmode client options
func (a APIConfig) ClientOptions(userAgent string) []watchmode.Option {
	return []watchmode.Option{
		watchmode.WithTimeout(a.Timeout),
		watchmode.WithRateLimit(a.RateLimit, a.Burst),
		watchmode.WithUserAgent(userAgent),
	}
}
