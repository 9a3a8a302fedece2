package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AuthConfig struct {
	Secret        string `yaml:"secret"`
	AccessTTL     string `yaml:"access_ttl"`
	RefreshTTL    string `yaml:"refresh_ttl"`
	EmailTokenTTL string `yaml:"email_token_ttl"`
	BcryptCost    int    `yaml:"bcrypt_cost"`

	// parsed from the string fields above
	AccessTTLDur     time.Duration `yaml:"-"`
	RefreshTTLDur    time.Duration `yaml:"-"`
	EmailTokenTTLDur time.Duration `yaml:"-"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
	DryRun   bool   `yaml:"dry_run"`
}

type Config struct {
	Server struct {
		Port    int    `yaml:"port"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth  AuthConfig `yaml:"auth"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Auth.Secret == "" {
		panic("auth.secret is required")
	}
	cfg.Auth.AccessTTLDur = parseTTL(cfg.Auth.AccessTTL, 15*time.Minute)
	cfg.Auth.RefreshTTLDur = parseTTL(cfg.Auth.RefreshTTL, 7*24*time.Hour)
	cfg.Auth.EmailTokenTTLDur = parseTTL(cfg.Auth.EmailTokenTTL, 24*time.Hour)
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:8080"
	}
	return &cfg
}

func parseTTL(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		panic("Failed to parse auth ttl " + s + ": " + err.Error())
	}
	return d
}
