package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/VitaminP8/blogicum/models"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	// Path - файл базы для sqlite
	Path string `yaml:"path"`
}

type Config struct {
	Addr        string         `yaml:"addr"`
	Storage     string         `yaml:"storage"`
	Database    DatabaseConfig `yaml:"database"`
	JWTSecret   string         `yaml:"jwt_secret"`
	TokenTTL    time.Duration  `yaml:"token_ttl"`
	PostsOnPage int            `yaml:"posts_on_page"`
	MaxLength   int            `yaml:"max_length"`
	MediaDir    string         `yaml:"media_dir"`
	// TemplateDir - шаблоны с диска вместо встроенных (для разработки)
	TemplateDir string `yaml:"template_dir"`
	Debug       bool   `yaml:"debug"`
}

func Default() *Config {
	return &Config{
		Addr:    ":8080",
		Storage: StorageMemory,
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			SSLMode: "disable",
			Path:    "blogicum.db",
		},
		TokenTTL:    72 * time.Hour,
		PostsOnPage: 10,
		MaxLength:   models.DefaultMaxLength,
		MediaDir:    "media",
	}
}

// LoadEnv загружает .env из текущей директории, отсутствие файла - не ошибка
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load собирает конфигурацию: значения по умолчанию, затем yaml-файл
// (если path не пустой), затем .env и переменные окружения.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := LoadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"ADDR":         &c.Addr,
		"STORAGE":      &c.Storage,
		"DB_HOST":      &c.Database.Host,
		"DB_PORT":      &c.Database.Port,
		"DB_USER":      &c.Database.User,
		"DB_PASSWORD":  &c.Database.Password,
		"DB_NAME":      &c.Database.Name,
		"DB_SSLMODE":   &c.Database.SSLMode,
		"DB_PATH":      &c.Database.Path,
		"JWT_SECRET":   &c.JWTSecret,
		"MEDIA_DIR":    &c.MediaDir,
		"TEMPLATE_DIR": &c.TemplateDir,
	}
	for key, dst := range strs {
		if value := os.Getenv(key); value != "" {
			*dst = value
		}
	}

	ints := map[string]*int{
		"POSTS_ON_PAGE": &c.PostsOnPage,
		"MAX_LENGTH":    &c.MaxLength,
	}
	for key, dst := range ints {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("environment variable %s: %w", key, err)
		}
		*dst = n
	}

	if value := os.Getenv("TOKEN_TTL"); value != "" {
		ttl, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("environment variable TOKEN_TTL: %w", err)
		}
		c.TokenTTL = ttl
	}
	if value := os.Getenv("DEBUG"); value != "" {
		debug, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("environment variable DEBUG: %w", err)
		}
		c.Debug = debug
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		for name, value := range map[string]string{
			"database.host": c.Database.Host,
			"database.port": c.Database.Port,
			"database.user": c.Database.User,
			"database.name": c.Database.Name,
		} {
			if value == "" {
				errs = append(errs, fmt.Errorf("%s is required for postgres storage", name))
			}
		}
	case StorageSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q", c.Storage))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	if c.PostsOnPage <= 0 {
		errs = append(errs, errors.New("posts_on_page must be positive"))
	}
	if c.MaxLength <= 0 {
		errs = append(errs, errors.New("max_length must be positive"))
	}
	if c.MediaDir == "" {
		errs = append(errs, errors.New("media_dir is required"))
	}

	return errors.Join(errs...)
}

// PostgresDSN - строка подключения в формате lib/pq
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Database.Host,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.Port,
		c.Database.SSLMode,
	)
}
