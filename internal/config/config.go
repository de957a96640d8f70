package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/sundiag/backoffice-api/internal/model"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LabAPI   LabAPIConfig   `mapstructure:"lab_api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Refund   RefundConfig   `mapstructure:"refund"`
	Billing  BillingConfig  `mapstructure:"billing"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	RateLimit      int `mapstructure:"rate_limit"`
	RateBurst      int `mapstructure:"rate_burst"`
}

type LabAPIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxFailures    int           `mapstructure:"max_failures"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type RefundConfig struct {
	Authorizers []model.Authorizer `mapstructure:"authorizers"`
	SessionTTL  time.Duration      `mapstructure:"session_ttl"`
}

type BillingConfig struct {
	ReceiptHeaderImage string `mapstructure:"receipt_header_image"`
	LabName            string `mapstructure:"lab_name"`
	LabAddress         string `mapstructure:"lab_address"`
}

// envOverrides are the deployment-level settings that may be supplied via
// environment, taking precedence over the YAML file.
type envOverrides struct {
	Port        int    `envconfig:"PORT"`
	LabAPIURL   string `envconfig:"LAB_API_URL"`
	DatabaseURL string `envconfig:"DATABASE_HOST"`
	RedisURL    string `envconfig:"REDIS_URL"`
	SMTPHost    string `envconfig:"SMTP_HOST"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("sundiag", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}
	if env.Port != 0 {
		config.Server.Port = env.Port
	}
	if env.LabAPIURL != "" {
		config.LabAPI.BaseURL = env.LabAPIURL
	}
	if env.DatabaseURL != "" {
		config.Database.Host = env.DatabaseURL
	}
	if env.RedisURL != "" {
		config.Redis.URL = env.RedisURL
	}
	if env.SMTPHost != "" {
		config.SMTP.Host = env.SMTPHost
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = 30
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 100
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = 200
	}
	if c.LabAPI.Timeout == 0 {
		c.LabAPI.Timeout = 15 * time.Second
	}
	if c.LabAPI.MaxFailures == 0 {
		c.LabAPI.MaxFailures = 5
	}
	if c.LabAPI.BreakerTimeout == 0 {
		c.LabAPI.BreakerTimeout = 30 * time.Second
	}
	if c.Refund.SessionTTL == 0 {
		c.Refund.SessionTTL = 30 * time.Minute
	}
}
