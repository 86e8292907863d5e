/**
 * @description
 * This package handles the configuration management for the service. It uses the
 * Viper library to read configuration from environment variables, providing a
 * centralized and straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the campaign service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort         string `mapstructure:"SERVER_PORT"`
	DatabaseURL        string `mapstructure:"DATABASE_URL"`
	RedisURL           string `mapstructure:"REDIS_URL"`
	RedisWebhookPrefix string `mapstructure:"REDIS_WEBHOOK_PREFIX"`
	RabbitMQURL        string `mapstructure:"RABBITMQ_URL"`
	DonationEventQueue string `mapstructure:"DONATION_EVENT_QUEUE"`
	MPAPIBaseURL       string `mapstructure:"MP_API_BASE_URL"`
	MPAccessToken      string `mapstructure:"MP_ACCESS_TOKEN"`
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	R2Endpoint         string `mapstructure:"R2_ENDPOINT"`
	R2AccessKeyID      string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey  string `mapstructure:"R2_SECRET_ACCESS_KEY"`
	R2Bucket           string `mapstructure:"R2_BUCKET"`
	R2PublicURL        string `mapstructure:"R2_PUBLIC_URL"`
	FrontendURL        string `mapstructure:"FRONTEND_URL"`
	APIBaseURL         string `mapstructure:"API_BASE_URL"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DONATION_EVENT_QUEUE", "campaign_service.donation_updates")
	viper.SetDefault("MP_API_BASE_URL", "https://api.mercadopago.com")
	viper.SetDefault("REDIS_WEBHOOK_PREFIX", "hopeshare:webhook")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_WEBHOOK_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("DONATION_EVENT_QUEUE")
	_ = viper.BindEnv("MP_API_BASE_URL")
	_ = viper.BindEnv("MP_ACCESS_TOKEN", "MP_ACCESS_TOKEN", "MERCADOPAGO_ACCESS_TOKEN")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("R2_ENDPOINT", "R2_ENDPOINT", "CLOUDFLARE_R2_ENDPOINT")
	_ = viper.BindEnv("R2_ACCESS_KEY_ID", "R2_ACCESS_KEY_ID", "CLOUDFLARE_R2_ACCESS_KEY_ID")
	_ = viper.BindEnv("R2_SECRET_ACCESS_KEY", "R2_SECRET_ACCESS_KEY", "CLOUDFLARE_R2_SECRET_ACCESS_KEY")
	_ = viper.BindEnv("R2_BUCKET", "R2_BUCKET", "CLOUDFLARE_R2_BUCKET_NAME")
	_ = viper.BindEnv("R2_PUBLIC_URL", "R2_PUBLIC_URL", "CLOUDFLARE_R2_PUBLIC_URL")
	_ = viper.BindEnv("FRONTEND_URL")
	_ = viper.BindEnv("API_BASE_URL")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisWebhookPrefix = strings.TrimSpace(config.RedisWebhookPrefix)
	if config.RedisWebhookPrefix == "" {
		config.RedisWebhookPrefix = "hopeshare:webhook"
	}
	config.MPAPIBaseURL = strings.TrimSuffix(strings.TrimSpace(config.MPAPIBaseURL), "/")
	config.FrontendURL = strings.TrimSuffix(strings.TrimSpace(config.FrontendURL), "/")
	config.APIBaseURL = strings.TrimSuffix(strings.TrimSpace(config.APIBaseURL), "/")
	config.R2PublicURL = strings.TrimSuffix(strings.TrimSpace(config.R2PublicURL), "/")

	return
}
