package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"trend-intel/internal/cache"
	"trend-intel/internal/provider"
)

// Config is the top-level service configuration.
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Cache    cache.StoreConfig `mapstructure:"cache"`
	Redis    cache.RedisConfig `mapstructure:"redis"`
	Provider provider.Config   `mapstructure:"provider"`
	Logger   LoggerConfig      `mapstructure:"logger"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// LoadConfig loads configuration from config files and environment
// variables.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/trend-intel")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TI") // Trend Intel

	viper.BindEnv("cache.max_entries", "TI_CACHE_MAX_ENTRIES")
	viper.BindEnv("cache.cleanup_interval", "TI_CACHE_CLEANUP_INTERVAL")
	viper.BindEnv("redis.enabled", "TI_REDIS_ENABLED")
	viper.BindEnv("redis.addresses", "TI_REDIS_ADDRESSES")
	viper.BindEnv("redis.password", "TI_REDIS_PASSWORD")
	viper.BindEnv("redis.database", "TI_REDIS_DATABASE")
	viper.BindEnv("redis.snapshot_key", "TI_REDIS_SNAPSHOT_KEY")
	viper.BindEnv("provider.base_url", "TI_PROVIDER_BASE_URL")
	viper.BindEnv("provider.api_key", "TI_PROVIDER_API_KEY")
	viper.BindEnv("provider.request_timeout", "TI_PROVIDER_REQUEST_TIMEOUT")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file found, defaults apply.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// The addresses env var arrives as a comma-separated string.
	if addressesStr := viper.GetString("redis.addresses"); addressesStr != "" {
		addresses := strings.Split(addressesStr, ",")
		for i, addr := range addresses {
			addresses[i] = strings.TrimSpace(addr)
		}
		config.Redis.Addresses = addresses
	}

	return &config, nil
}

// setDefaults establishes the default values.
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Cache defaults
	viper.SetDefault("cache.max_entries", 1000)
	viper.SetDefault("cache.evict_fraction", 0.10)
	viper.SetDefault("cache.cleanup_interval", "30m")

	// Redis snapshot defaults - persistence is opt-in
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addresses", []string{"localhost:6379"})
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.dial_timeout", "5s")
	viper.SetDefault("redis.read_timeout", "3s")
	viper.SetDefault("redis.write_timeout", "3s")
	viper.SetDefault("redis.snapshot_key", "trend-intel:cache:snapshot")

	// Provider defaults
	viper.SetDefault("provider.base_url", "http://localhost:9090")
	viper.SetDefault("provider.api_key", "")
	viper.SetDefault("provider.request_timeout", "20s")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")
	viper.SetDefault("logger.output_path", "stdout")
}

// GetAddress returns the full server address.
func (sc *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", sc.Host, sc.Port)
}
