package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret"`
		TTL        int    `yaml:"ttl"`         // access token lifetime, minutes
		RefreshTTL int    `yaml:"refresh_ttl"` // refresh token lifetime, days
	} `yaml:"jwt"`

	Email EmailConfig `yaml:"email"`

	// Binance credentials live in the payment_settings table; only the API
	// host is configured here so tests can point the client at a stub.
	Binance struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"binance"`

	CheckAPI struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"checkapi"`

	Reports struct {
		Dir      string `yaml:"dir"`
		Interval int    `yaml:"interval"` // worker poll interval, seconds
	} `yaml:"reports"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	FromName     string `yaml:"from_name"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, or falls back to environment variables when
// DATABASE_URL is set (test mode).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTL = 7

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "test@phoneadmin.local"

	cfg.CheckAPI.BaseURL = os.Getenv("PHONE_API_URL")
	cfg.CheckAPI.APIKey = os.Getenv("PHONE_API_KEY")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.JWT.RefreshTTL == 0 {
		cfg.JWT.RefreshTTL = 7
	}
	if cfg.Binance.BaseURL == "" {
		cfg.Binance.BaseURL = "https://api.binance.com"
	}
	if cfg.CheckAPI.BaseURL == "" {
		cfg.CheckAPI.BaseURL = "http://checkapi.org/api"
	}
	if cfg.Reports.Dir == "" {
		cfg.Reports.Dir = "./reports"
	}
	if cfg.Reports.Interval == 0 {
		cfg.Reports.Interval = 30
	}
}

// GetConfig returns the loaded configuration, loading it on first use.
func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
