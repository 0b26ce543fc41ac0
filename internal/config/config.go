// Package config loads datacanvas command settings from a YAML file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/datacanvas/datacanvas-go"
)

// EnvPrefix is prepended to every environment variable, e.g. DATACANVAS_CLIENT_KEY.
const EnvPrefix = "DATACANVAS"

// Config holds all settings of the command.
type Config struct {
	ClientKey    string        `mapstructure:"client_key"`
	SecretKey    string        `mapstructure:"secret_key"`
	ProjectID    int           `mapstructure:"project_id"`
	APIURL       string        `mapstructure:"api_url"`
	Origin       string        `mapstructure:"origin"`
	InsecureHTTP bool          `mapstructure:"insecure_http"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Data         DataConfig    `mapstructure:"data"`
	Logging      LoggingConfig `mapstructure:"logging"`
}

type DataConfig struct {
	DefaultLimit int    `mapstructure:"default_limit"`
	MaxLimit     int    `mapstructure:"max_limit"`
	DefaultOrder string `mapstructure:"default_order"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// keys lists every setting so that each can be overridden from the environment.
var keys = []string{
	"client_key",
	"secret_key",
	"project_id",
	"api_url",
	"origin",
	"insecure_http",
	"timeout",
	"data.default_limit",
	"data.max_limit",
	"data.default_order",
	"logging.level",
	"logging.format",
}

// New returns a viper instance with the defaults and environment bindings
// in place. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		_ = v.BindEnv(key) // only fails without a key
	}
	// LOG_LEVEL is the documented short form of LOGGING_LEVEL.
	_ = v.BindEnv("logging.level", EnvPrefix+"_LOGGING_LEVEL", EnvPrefix+"_LOG_LEVEL")
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", datacanvas.DefaultBaseURL)
	v.SetDefault("timeout", datacanvas.DefaultTimeout)

	v.SetDefault("data.default_limit", datacanvas.DefaultLimit)
	v.SetDefault("data.max_limit", datacanvas.MaxLimit)
	v.SetDefault("data.default_order", string(datacanvas.DefaultOrder))

	v.SetDefault("logging.format", "json")
}

// Load reads the YAML file at path, if any, and decodes the merged settings.
// Precedence is flags, then environment, then file, then defaults.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate reports the settings the command cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ClientKey) == "" {
		errs = append(errs, fmt.Errorf("client key is required (set %s_CLIENT_KEY)", EnvPrefix))
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		errs = append(errs, fmt.Errorf("secret key is required (set %s_SECRET_KEY)", EnvPrefix))
	}
	if c.ProjectID <= 0 {
		errs = append(errs, fmt.Errorf("project id is required (set %s_PROJECT_ID)", EnvPrefix))
	}
	return errors.Join(errs...)
}

// ClientConfig returns the connection settings for datacanvas.NewClient.
func (c *Config) ClientConfig() datacanvas.Config {
	return datacanvas.Config{
		ClientKey: c.ClientKey,
		SecretKey: c.SecretKey,
		ProjectID: c.ProjectID,
		BaseURL:   c.APIURL,
		Timeout:   c.Timeout,
	}
}

// DataDefaults returns the data query defaults for datacanvas.WithDataDefaults.
func (c *Config) DataDefaults() datacanvas.DataDefaults {
	return datacanvas.DataDefaults{
		Limit:    c.Data.DefaultLimit,
		MaxLimit: c.Data.MaxLimit,
		Order:    datacanvas.Order(c.Data.DefaultOrder),
	}
}
