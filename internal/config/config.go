package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Port         int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	DatabaseURL  string        `mapstructure:"database_url"`
	MasterSecret string        `mapstructure:"master_secret" validate:"required"`
	GinMode      string        `mapstructure:"gin_mode" validate:"oneof=debug release test"`
	TLSCertFile  string        `mapstructure:"tls_cert_file"`
	TLSKeyFile   string        `mapstructure:"tls_key_file"`
	TokenExpiry  time.Duration `mapstructure:"token_expiry" validate:"gt=0"`
	SessionTTL   time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	PingInterval time.Duration `mapstructure:"ping_interval" validate:"gt=0"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`
}

// Load reads configuration from an optional config.yaml in the working
// directory and from TASKBOARD_* environment variables, environment
// taking precedence.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("port", 3000)
	v.SetDefault("gin_mode", "release")
	v.SetDefault("token_expiry", 24*time.Hour)
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("ping_interval", 30*time.Second)
	v.SetDefault("cache_ttl", time.Minute)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TASKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind explicitly so env vars work without a config file present.
	for _, key := range []string{
		"port", "database_url", "master_secret", "gin_mode",
		"tls_cert_file", "tls_key_file", "token_expiry", "session_ttl",
		"ping_interval", "cache_ttl",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
