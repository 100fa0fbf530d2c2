package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	DSN string `yaml:"url"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

type TelegramConfig struct {
	BotToken            string `yaml:"bot_token"`
	ReminderWindowHours int    `yaml:"reminder_window_hours"`
	PollIntervalMinutes int    `yaml:"poll_interval_minutes"`
}

type MigrationsConfig struct {
	Path string `yaml:"path"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Email      EmailConfig      `yaml:"email"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

const (
	defaultPort            = 8080
	defaultTokenTTLMinutes = 24 * 60
	defaultMigrationsPath  = "migrations"
)

// LoadConfig reads config/config.yaml if present and applies environment
// overrides on top. A missing config file is not an error: everything has
// an env fallback so the service can run from environment alone.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	cfg.Server.Port = defaultPort
	cfg.Auth.TokenTTLMinutes = defaultTokenTTLMinutes
	cfg.Migrations.Path = defaultMigrationsPath
	cfg.Telegram.ReminderWindowHours = 24
	cfg.Telegram.PollIntervalMinutes = 15

	if path == "" {
		path = "config/config.yaml"
	}
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Auth.TokenTTLMinutes <= 0 {
		cfg.Auth.TokenTTLMinutes = defaultTokenTTLMinutes
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	cfg.Database.DSN = getEnv("DATABASE_URL", cfg.Database.DSN)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Email.SMTPHost = getEnv("SMTP_HOST", cfg.Email.SMTPHost)
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Email.SMTPPort = p
		}
	}
	cfg.Email.SMTPUser = getEnv("SMTP_USER", cfg.Email.SMTPUser)
	cfg.Email.SMTPPassword = getEnv("SMTP_PASSWORD", cfg.Email.SMTPPassword)
	cfg.Email.FromEmail = getEnv("SMTP_FROM", cfg.Email.FromEmail)
	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", cfg.Telegram.BotToken)
	cfg.Migrations.Path = getEnv("MIGRATIONS_PATH", cfg.Migrations.Path)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
