package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines client configuration.
type Config struct {
	Env  string     `yaml:"env"`
	API  APIConfig  `yaml:"api"`
	DB   DBConfig   `yaml:"db"`
	Log  LogConfig  `yaml:"log"`
	Mock MockConfig `yaml:"mock"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path, when set, sends logs to a size-capped file instead of stderr.
	Path string `yaml:"path"`
}

// MockConfig configures the local mock backend.
type MockConfig struct {
	Addr      string `yaml:"addr"`
	JWTSecret string `yaml:"jwt_secret"`
	// AllowedOrigins for browser frontends. Empty allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads configuration from an optional .env file, an optional YAML file
// and environment variables, in that order of increasing precedence.
func Load() (Config, error) {
	cfg := Config{
		Env: "development",
		API: APIConfig{
			BaseURL: "https://ecopulse-backend.onrender.com",
		},
		DB: DBConfig{
			Path: "ecopulse.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Mock: MockConfig{
			Addr:      "127.0.0.1:8000",
			JWTSecret: "ecopulse-dev-secret",
		},
	}

	if err := loadEnvFile(os.Getenv("ECOPULSE_ENV_FILE")); err != nil {
		return Config{}, err
	}

	if path := os.Getenv("ECOPULSE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if env := os.Getenv("ECOPULSE_ENV"); env != "" {
		cfg.Env = env
	}
	if baseURL := os.Getenv("ECOPULSE_API_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if timeoutStr := os.Getenv("ECOPULSE_API_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ECOPULSE_API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = timeout
	}
	if dbPath := os.Getenv("ECOPULSE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("ECOPULSE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("ECOPULSE_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if addr := os.Getenv("ECOPULSE_MOCK_ADDR"); addr != "" {
		cfg.Mock.Addr = addr
	}
	if secret := os.Getenv("ECOPULSE_MOCK_SECRET"); secret != "" {
		cfg.Mock.JWTSecret = secret
	}

	if origins := os.Getenv("ECOPULSE_MOCK_ORIGINS"); origins != "" {
		cfg.Mock.AllowedOrigins = splitList(origins)
	}

	if cfg.API.BaseURL == "" {
		return Config{}, errors.New("api base url must not be empty")
	}
	if cfg.API.Timeout < 0 {
		return Config{}, errors.New("api timeout must not be negative")
	}

	return cfg, nil
}

// loadEnvFile loads KEY=VALUE pairs without overriding variables that are
// already set. An explicit path must exist; the default .env is optional.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
