// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver              string        `mapstructure:"DB_DRIVER"`
	DBSource              string        `mapstructure:"DB_SOURCE"`
	ServerAddress         string        `mapstructure:"SERVER_ADDRESS"`
	RedisAddress          string        `mapstructure:"REDIS_ADDRESS"`
	AMQPSource            string        `mapstructure:"AMQP_SOURCE"`
	NotificationExchange  string        `mapstructure:"NOTIFICATION_EXCHANGE"`
	RatesAPIURL           string        `mapstructure:"RATES_API_URL"`
	RatesAPIKey           string        `mapstructure:"RATES_API_KEY"`
	RatesCacheTTL         time.Duration `mapstructure:"RATES_CACHE_TTL"`
	RequestCacheTTL       time.Duration `mapstructure:"REQUEST_CACHE_TTL"`
	OptimisticMaxAttempts int           `mapstructure:"OPTIMISTIC_MAX_ATTEMPTS"`
	Environement          string        `mapstructure:"GO_ENV"`
}

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	if c.OptimisticMaxAttempts <= 0 {
		c.OptimisticMaxAttempts = 3
	}

	return c, nil
}
