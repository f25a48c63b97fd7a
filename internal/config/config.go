package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            string        `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Storage struct {
		Type        string `yaml:"type"`
		InitOnStart bool   `yaml:"init_on_start"`
	} `yaml:"storage"`
	Postgres struct {
		DSN      string `yaml:"dsn"`
		MaxConns int32  `yaml:"max_conns"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Admin struct {
		Password string `yaml:"password"`
	} `yaml:"admin"`
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Storage.Type = "memory"
	cfg.Storage.InitOnStart = true
	cfg.Postgres.MaxConns = 10
	cfg.SQLite.Path = "posts.db"
	return cfg
}

// Load читает YAML-файл поверх значений по умолчанию и применяет переменные окружения.
// Отсутствующий файл не считается ошибкой.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("ADMIN_PASSWORD"); v != "" {
		c.Admin.Password = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.Postgres.DSN = v
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
}

func (c *Config) Validate() error {
	c.Storage.Type = strings.ToLower(strings.TrimSpace(c.Storage.Type))
	switch c.Storage.Type {
	case "memory", "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown storage type: %q", c.Storage.Type)
	}
	if c.Storage.Type == "postgres" && c.Postgres.DSN == "" {
		return errors.New("postgres dsn is required")
	}
	if c.Storage.Type == "sqlite" && c.SQLite.Path == "" {
		return errors.New("sqlite path is required")
	}
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	return nil
}
