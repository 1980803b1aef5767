package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	RPCURL     string `mapstructure:"rpc_url" validate:"required,url"`
	PrivateKey string `mapstructure:"private_key" validate:"omitempty,hexadecimal"`
	ChainID    uint64 `mapstructure:"chain_id"`

	DeploymentsFile string          `mapstructure:"deployments_file"`
	Contracts       ContractsConfig `mapstructure:"contracts"`

	RedisAddr     string `mapstructure:"redis_addr" validate:"omitempty,hostname_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`

	DatabasePath string `mapstructure:"database_path" validate:"required"`

	Port           string `mapstructure:"port" validate:"required,numeric"`
	LogLevel       string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogDevelopment bool   `mapstructure:"log_development"`

	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout" validate:"gt=0"`
	PriceCacheTTL  time.Duration `mapstructure:"price_cache_ttl" validate:"gt=0"`
	SessionTTL     time.Duration `mapstructure:"session_ttl" validate:"gt=0"`

	ExplorerURL string `mapstructure:"explorer_url" validate:"omitempty,url"`
}

// ContractsConfig overrides or replaces addresses from the deployments file
type ContractsConfig struct {
	TokenA    string `mapstructure:"token_a" validate:"omitempty,eth_addr"`
	TokenB    string `mapstructure:"token_b" validate:"omitempty,eth_addr"`
	SimpleDex string `mapstructure:"simple_dex" validate:"omitempty,eth_addr"`
}

// CanSign reports whether a signing key is configured
func (c *Config) CanSign() bool {
	return c.PrivateKey != ""
}

var validate = validator.New()

// Load reads configuration from environment variables and an optional
// .simpledex.yaml in $HOME or the working directory
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".simpledex")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("SIMPLEDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc_url", "http://127.0.0.1:8545")
	v.SetDefault("chain_id", 0)
	v.SetDefault("deployments_file", "deployments.json")
	v.SetDefault("contracts.token_a", "")
	v.SetDefault("contracts.token_b", "")
	v.SetDefault("contracts.simple_dex", "")
	v.SetDefault("private_key", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("database_path", "data/simpledex.db")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)
	v.SetDefault("confirm_timeout", 5*time.Minute)
	v.SetDefault("price_cache_ttl", 10*time.Second)
	v.SetDefault("session_ttl", 30*time.Minute)
	v.SetDefault("explorer_url", "")
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.PrivateKey = strings.TrimPrefix(cfg.PrivateKey, "0x")
	cfg.ExplorerURL = strings.TrimRight(cfg.ExplorerURL, "/")

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
