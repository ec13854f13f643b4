package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		AccessTokenSecret     string `yaml:"access_token_secret"`
		RefreshTokenSecret    string `yaml:"refresh_token_secret"`
		AccessTokenTTLMinutes int64  `yaml:"access_token_ttl_minutes"`
		RefreshTokenTTLDays   int64  `yaml:"refresh_token_ttl_days"`
		SecureCookies         bool   `yaml:"secure_cookies"`
	} `yaml:"auth"`
	Media struct {
		Endpoint      string `yaml:"endpoint"`
		Region        string `yaml:"region"`
		Bucket        string `yaml:"bucket"`
		AccessKey     string `yaml:"access_key"`
		SecretKey     string `yaml:"secret_key"`
		PublicBaseURL string `yaml:"public_base_url"`
	} `yaml:"media"`
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.Auth.AccessTokenTTLMinutes) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.Auth.RefreshTokenTTLDays) * 24 * time.Hour
}

// LoadConfig reads configuration from the specified YAML file. Values may
// reference environment variables as ${VAR}; a .env file is loaded first if
// one exists.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Auth.AccessTokenSecret == "" || config.Auth.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("auth.access_token_secret and auth.refresh_token_secret are required")
	}
	if config.Auth.AccessTokenTTLMinutes <= 0 {
		config.Auth.AccessTokenTTLMinutes = 15
	}
	if config.Auth.RefreshTokenTTLDays <= 0 {
		config.Auth.RefreshTokenTTLDays = 10
	}
	if config.Server.Port == "" {
		config.Server.Port = ":8080"
	}

	return config, nil
}
