package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

type DatabaseConfig struct {
	DSN     string `yaml:"dsn"`
	MaxOpen int    `yaml:"maxOpen"`
	MaxIdle int    `yaml:"maxIdle"`
}

type AuthConfig struct {
	// Secret verifies bearer tokens minted by the identity provider.
	Secret string `yaml:"secret"`
}

type WebhookConfig struct {
	// Secret verifies identity webhook signatures.
	Secret string `yaml:"secret"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Filename   string `yaml:"filename"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

// Load reads the YAML config file and applies environment overrides on top.
func Load(path string) *Config {
	cfg := defaults()

	if data, err := os.ReadFile(path); err == nil {
		yaml.Unmarshal(data, cfg)
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = ":" + v
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DB_MAX_OPEN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.MaxOpen = n
		}
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("WEBHOOK_SECRET"); v != "" {
		cfg.Webhook.Secret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:     "root:root@tcp(localhost:3306)/mingle?charset=utf8mb4&parseTime=True&loc=Local",
			MaxOpen: 25,
			MaxIdle: 5,
		},
		Auth: AuthConfig{
			Secret: "mingle-secret-key-change-in-production",
		},
		Webhook: WebhookConfig{
			Secret: "whsec_changeme",
		},
		Log: LogConfig{
			Level:      "info",
			Filename:   "logs/mingle.log",
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		},
	}
}
