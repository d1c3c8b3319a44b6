package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTokenTTL   = 10 * time.Hour
	DefaultBcryptCost = 12

	// MinSecretLength is the shortest accepted HMAC secret, in bytes.
	MinSecretLength = 32
)

type Config struct {
	HTTPAddr   string        `yaml:"http_addr"`
	DBDSN      string        `yaml:"db_dsn"`
	UsersPath  string        `yaml:"users_path"`
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
	LogLevel   string        `yaml:"log_level"`
	LogFormat  string        `yaml:"log_format"`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaults() Config {
	return Config{
		HTTPAddr:   ":8080",
		UsersPath:  "config/users.yaml",
		TokenTTL:   DefaultTokenTTL,
		BcryptCost: DefaultBcryptCost,
		LogLevel:   "info",
		LogFormat:  "json",
	}
}

// Load builds the configuration from defaults, then the optional YAML file
// named by SWEETSHOP_CONFIG, then environment variables.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("SWEETSHOP_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTPAddr = getenv("SWEETSHOP_HTTP_ADDR", cfg.HTTPAddr)
	cfg.DBDSN = getenv("SWEETSHOP_DB_DSN", cfg.DBDSN)
	cfg.UsersPath = getenv("SWEETSHOP_USERS_PATH", cfg.UsersPath)
	cfg.JWTSecret = getenv("SWEETSHOP_JWT_SECRET", cfg.JWTSecret)
	cfg.LogLevel = getenv("SWEETSHOP_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("SWEETSHOP_LOG_FORMAT", cfg.LogFormat)

	if v := os.Getenv("SWEETSHOP_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SWEETSHOP_TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv("SWEETSHOP_BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SWEETSHOP_BCRYPT_COST: %w", err)
		}
		cfg.BcryptCost = n
	}
	return nil
}

// Validate rejects settings the auth subsystem cannot run with.
// An empty JWTSecret is allowed: the server then generates a key at start.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http addr is empty"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("bcrypt cost must be in [4, 31], got %d", c.BcryptCost))
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength))
	}
	return errors.Join(errs...)
}
