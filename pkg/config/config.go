// Package config loads SDK configuration from a yaml file and the
// environment, and builds the logger used across the SDK.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the SDK client configuration
type Config struct {
	Network string        `mapstructure:"network" validate:"required"`
	RPC     RPCConfig     `mapstructure:"rpc"`
	Relay   RelayConfig   `mapstructure:"relay"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RPCConfig contains chain RPC settings
type RPCConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// RelayConfig contains relay dispatcher settings
type RelayConfig struct {
	// Endpoint overrides the network-published relay URL when set.
	Endpoint string        `mapstructure:"endpoint" validate:"omitempty,url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// WalletConfig contains the signing account settings
type WalletConfig struct {
	PrivateKey string `mapstructure:"private_key" validate:"required"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

var validate = validator.New()

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ACC")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Network defaults
	v.SetDefault("network", "testnet")

	// Relay defaults
	v.SetDefault("relay.timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}
