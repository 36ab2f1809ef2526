package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
	SecureCookie bool          `yaml:"secure_cookie"`
	CookieDomain string        `yaml:"cookie_domain"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AnalyticsConfig struct {
	HorizonDays     int           `yaml:"horizon_days"`
	SummaryCacheTTL time.Duration `yaml:"summary_cache_ttl"`
}

type RemindersConfig struct {
	Interval   time.Duration `yaml:"interval"`
	WebhookURL string        `yaml:"webhook_url"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Reminders RemindersConfig `yaml:"reminders"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Analytics.HorizonDays <= 0 {
		cfg.Analytics.HorizonDays = 30
	}
	if cfg.Analytics.SummaryCacheTTL <= 0 {
		cfg.Analytics.SummaryCacheTTL = 15 * time.Minute
	}
	if cfg.Reminders.Interval <= 0 {
		cfg.Reminders.Interval = time.Hour
	}
	if cfg.Auth.SessionTTL <= 0 {
		cfg.Auth.SessionTTL = 30 * time.Minute
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}
