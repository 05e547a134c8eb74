package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Path string
	}
	Server struct {
		Port      int
		JWTSecret string
	}
	Notify struct {
		Email struct {
			SMTPHost string
			SMTPPort int
			From     string
			Password string
		}
		SMS struct {
			AccountSID string
			AuthToken  string
			FromNumber string
		}
		Push struct {
			SlackToken   string
			SlackChannel string
		}
	}
	Monitor struct {
		SweepInterval      time.Duration
		ExpiryInterval     time.Duration
		RecurrenceInterval time.Duration
		MaxConcurrentFarms int
	}
}

// LoadConfig loads the configuration from config.yaml
func LoadConfig() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("database.path", "data/farmwatch.db")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.jwtsecret", "change-me-in-production")
	viper.SetDefault("monitor.sweepinterval", 15*time.Minute)
	viper.SetDefault("monitor.expiryinterval", 5*time.Minute)
	viper.SetDefault("monitor.recurrenceinterval", 10*time.Minute)
	viper.SetDefault("monitor.maxconcurrentfarms", 10)

	var config Config

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, keep defaults and write one out
			if err := os.MkdirAll("data", 0755); err != nil {
				fmt.Printf("Warning: Failed to create data directory: %v\n", err)
			}
			if err := viper.SafeWriteConfig(); err != nil {
				fmt.Printf("Warning: Failed to write default config: %v\n", err)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Printf("Error unmarshaling config: %v\n", err)
	}

	return &config
}
