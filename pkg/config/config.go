package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Crypto    CryptoConfig    `mapstructure:"crypto"`
	Migration MigrationConfig `mapstructure:"migration"`
	// Classification holds deployment-specific rule overrides, decoded by
	// the classifier at startup.
	Classification map[string]interface{} `mapstructure:"classification"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CryptoConfig struct {
	// DefaultKeyVersion is the active version for tenants without an
	// explicit entry; rotation bumps a tenant's entry in KeyVersions.
	DefaultKeyVersion int            `mapstructure:"default_key_version"`
	KeyVersions       map[string]int `mapstructure:"key_versions"`
}

type MigrationConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	BatchSize       int      `mapstructure:"batch_size"`
	IntervalSeconds int      `mapstructure:"interval_seconds"`
	Tenants         []string `mapstructure:"tenants"`
}

var globalConfig Config

func Load(configPath string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// no config file: environment variables only
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaultValues()
	return nil
}

func setDefaultValues() {
	if globalConfig.Database.SSLMode == "" {
		globalConfig.Database.SSLMode = "disable"
	}
	if globalConfig.Server.Port == 0 {
		globalConfig.Server.Port = 8080
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.Crypto.DefaultKeyVersion == 0 {
		globalConfig.Crypto.DefaultKeyVersion = 1
	}
	if globalConfig.Migration.BatchSize == 0 {
		globalConfig.Migration.BatchSize = 100
	}
	if globalConfig.Migration.IntervalSeconds == 0 {
		globalConfig.Migration.IntervalSeconds = 60
	}
}

func GetConfig() *Config {
	return &globalConfig
}
