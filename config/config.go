package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ErrMissingConfig is returned when a step needs a setting that is not
// configured.
var ErrMissingConfig = errors.New("missing configuration")

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"
	AppEnv        string `mapstructure:"APP_ENV"`        // "production" switches gin to release mode
	LogLevel      string `mapstructure:"LOG_LEVEL"`      // debug, info, warn, error

	// AI Configuration
	OpenAIKey          string  `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel        string  `mapstructure:"OPENAI_MODEL"`
	PlanTemperature    float32 `mapstructure:"PLAN_TEMPERATURE"`
	ContentTemperature float32 `mapstructure:"CONTENT_TEMPERATURE"`

	// Image Configuration
	UnsplashAccessKey string `mapstructure:"UNSPLASH_ACCESS_KEY"`
	UnsplashAPIURL    string `mapstructure:"UNSPLASH_API_URL"`

	// Client Files and Site Build
	ClientsDir   string `mapstructure:"CLIENTS_DIR"`   // holds one directory per client slug
	SiteDir      string `mapstructure:"SITE_DIR"`      // root of the static site project
	BuildCommand string `mapstructure:"BUILD_COMMAND"` // e.g., "npm run build"; empty skips the build

	// Submission Webhook
	AppsScriptURL string `mapstructure:"APPS_SCRIPT_WEBAPP_URL"`
	FactoryKey    string `mapstructure:"FACTORY_KEY"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":         ":8080",
	"APP_ENV":                "development",
	"LOG_LEVEL":              "info",
	"OPENAI_API_KEY":         "",
	"OPENAI_MODEL":           "gpt-4.1-mini",
	"PLAN_TEMPERATURE":       0.3,
	"CONTENT_TEMPERATURE":    0.4,
	"UNSPLASH_ACCESS_KEY":    "",
	"UNSPLASH_API_URL":       "https://api.unsplash.com",
	"CLIENTS_DIR":            "clients",
	"SITE_DIR":               ".",
	"BUILD_COMMAND":          "",
	"APPS_SCRIPT_WEBAPP_URL": "",
	"FACTORY_KEY":            "",
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string, logger *zap.Logger) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)     // Path to look for the config file in
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")

	// Defaults also register every key, which AutomaticEnv needs for Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		logger.Debug("config.yaml not found, relying on environment variables", zap.String("path", path))
	} else {
		logger.Info("Using configuration file", zap.String("file", v.ConfigFileUsed()))
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return config, nil
}

// RequireLLM checks the settings the generation passes need.
func (c Config) RequireLLM() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingConfig)
	}
	return nil
}

// RequireImages checks the settings the image fetch needs.
func (c Config) RequireImages() error {
	if c.UnsplashAccessKey == "" {
		return fmt.Errorf("%w: UNSPLASH_ACCESS_KEY", ErrMissingConfig)
	}
	return nil
}

// RequireSubmit checks the settings the submission webhook needs.
func (c Config) RequireSubmit() error {
	if c.AppsScriptURL == "" {
		return fmt.Errorf("%w: APPS_SCRIPT_WEBAPP_URL", ErrMissingConfig)
	}
	if c.FactoryKey == "" {
		return fmt.Errorf("%w: FACTORY_KEY", ErrMissingConfig)
	}
	return nil
}
