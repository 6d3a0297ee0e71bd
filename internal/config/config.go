package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Auth          AuthConfig          `yaml:"auth"`
	Storage       StorageConfig       `yaml:"storage"`
	Log           LogConfig           `yaml:"log"`
	RateLimit     RateLimitConfig     `yaml:"rateLimit"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Environment     string        `yaml:"environment"` // "development", "production", "test"
	Secure          bool          `yaml:"secure"`      // served over HTTPS, enables HSTS
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	MaxUploadBytes  int64         `yaml:"maxUploadBytes"`
}

type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	DBName         string `yaml:"dbname"`
	SSLMode        string `yaml:"sslmode"`
	MigrationsPath string `yaml:"migrationsPath"`
}

type RedisConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Password     string `yaml:"password"`
	DB           int    `yaml:"db"`
	PoolSize     int    `yaml:"poolSize"`
	MinIdleConns int    `yaml:"minIdleConns"`
}

// AuthConfig describes the access tokens minted by the managed auth backend.
type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer"`
}

// StorageConfig points at an S3-compatible bucket for avatar uploads.
// An empty Bucket disables uploads.
type StorageConfig struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	PublicBaseURL   string `yaml:"publicBaseUrl"`
	UsePathStyle    bool   `yaml:"usePathStyle"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

type RateLimitConfig struct {
	Backend string        `yaml:"backend"` // "redis" or "memory"
	Limit   int           `yaml:"limit"`
	Window  time.Duration `yaml:"window"`
}

type NotificationsConfig struct {
	Retention       time.Duration `yaml:"retention"`
	CleanupInterval time.Duration `yaml:"cleanupInterval"`
	UnreadCacheTTL  time.Duration `yaml:"unreadCacheTtl"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Environment:     "development",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadBytes:  5 << 20,
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           "wishlist",
			Password:       "wishlist",
			DBName:         "wishlist",
			SSLMode:        "disable",
			MigrationsPath: "migrations",
		},
		Redis: RedisConfig{
			Enabled:      true,
			Host:         "localhost",
			Port:         6379,
			PoolSize:     10,
			MinIdleConns: 3,
		},
		Storage: StorageConfig{
			Region: "us-east-1",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		RateLimit: RateLimitConfig{
			Backend: "redis",
			Limit:   20,
			Window:  time.Minute,
		},
		Notifications: NotificationsConfig{
			Retention:       365 * 24 * time.Hour,
			CleanupInterval: 24 * time.Hour,
			UnreadCacheTTL:  5 * time.Minute,
		},
	}
}

// Load builds the configuration from, in increasing priority: built-in
// defaults, the YAML file named by CONFIG_FILE, and the environment. A .env
// file (ENV_FILE, default ".env") is loaded first without overriding
// variables that are already set.
func Load() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := defaults()
	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	return cfg, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	s := &cfg.Server
	s.Host = getEnv("SERVER_HOST", s.Host)
	s.Port = getEnvInt("SERVER_PORT", s.Port)
	s.Environment = getEnv("APP_ENV", s.Environment)
	s.Secure = getEnvBool("SERVER_SECURE", s.Secure)
	s.ReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", s.ReadTimeout)
	s.WriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", s.WriteTimeout)
	s.ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	s.MaxUploadBytes = int64(getEnvInt("SERVER_MAX_UPLOAD_BYTES", int(s.MaxUploadBytes)))

	d := &cfg.Database
	d.Host = getEnv("DB_HOST", d.Host)
	d.Port = getEnvInt("DB_PORT", d.Port)
	d.User = getEnv("DB_USER", d.User)
	d.Password = getEnv("DB_PASSWORD", d.Password)
	d.DBName = getEnv("DB_NAME", d.DBName)
	d.SSLMode = getEnv("DB_SSLMODE", d.SSLMode)
	d.MigrationsPath = getEnv("DB_MIGRATIONS_PATH", d.MigrationsPath)

	r := &cfg.Redis
	r.Enabled = getEnvBool("REDIS_ENABLED", r.Enabled)
	r.Host = getEnv("REDIS_HOST", r.Host)
	r.Port = getEnvInt("REDIS_PORT", r.Port)
	r.Password = getEnv("REDIS_PASSWORD", r.Password)
	r.DB = getEnvInt("REDIS_DB", r.DB)
	r.PoolSize = getEnvInt("REDIS_POOL_SIZE", r.PoolSize)
	r.MinIdleConns = getEnvInt("REDIS_MIN_IDLE_CONNS", r.MinIdleConns)

	a := &cfg.Auth
	a.JWTSecret = getEnv("AUTH_JWT_SECRET", a.JWTSecret)
	a.Issuer = getEnv("AUTH_JWT_ISSUER", a.Issuer)

	st := &cfg.Storage
	st.Bucket = getEnv("STORAGE_BUCKET", st.Bucket)
	st.Region = getEnv("STORAGE_REGION", st.Region)
	st.Endpoint = getEnv("STORAGE_ENDPOINT", st.Endpoint)
	st.AccessKeyID = getEnv("STORAGE_ACCESS_KEY_ID", st.AccessKeyID)
	st.SecretAccessKey = getEnv("STORAGE_SECRET_ACCESS_KEY", st.SecretAccessKey)
	st.PublicBaseURL = getEnv("STORAGE_PUBLIC_BASE_URL", st.PublicBaseURL)
	st.UsePathStyle = getEnvBool("STORAGE_USE_PATH_STYLE", st.UsePathStyle)

	l := &cfg.Log
	l.Level = getEnv("LOG_LEVEL", l.Level)
	l.File = getEnv("LOG_FILE", l.File)
	l.MaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", l.MaxSizeMB)
	l.MaxBackups = getEnvInt("LOG_MAX_BACKUPS", l.MaxBackups)
	l.MaxAgeDays = getEnvInt("LOG_MAX_AGE_DAYS", l.MaxAgeDays)
	l.Compress = getEnvBool("LOG_COMPRESS", l.Compress)

	rl := &cfg.RateLimit
	rl.Backend = getEnv("RATE_LIMIT_BACKEND", rl.Backend)
	rl.Limit = getEnvInt("RATE_LIMIT_LIMIT", rl.Limit)
	rl.Window = getEnvDuration("RATE_LIMIT_WINDOW", rl.Window)

	n := &cfg.Notifications
	n.Retention = getEnvDuration("NOTIFICATIONS_RETENTION", n.Retention)
	n.CleanupInterval = getEnvDuration("NOTIFICATIONS_CLEANUP_INTERVAL", n.CleanupInterval)
	n.UnreadCacheTTL = getEnvDuration("NOTIFICATIONS_UNREAD_CACHE_TTL", n.UnreadCacheTTL)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
