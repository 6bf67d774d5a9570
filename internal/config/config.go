package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/AbuBakr-03/watchtower/internal/importer"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Importer ImporterConfig `yaml:"importer"`
	Auth     AuthConfig     `yaml:"auth"`
	Archive  ArchiveConfig  `yaml:"archive"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with ECS detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	// Allow override via environment
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL             string `yaml:"url"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifeMins int    `yaml:"conn_max_life_mins"`
}

// ConnMaxLifetime returns the connection lifetime as a duration
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifeMins) * time.Minute
}

// RedisConfig holds Redis connection settings for import progress
// tracking and draft storage
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ImporterConfig holds contact import pipeline settings
type ImporterConfig struct {
	Delimiter          string `yaml:"delimiter"`
	PhonePolicy        string `yaml:"phone_policy"` // "local8" or "e164"
	DefaultCountryCode string `yaml:"default_country_code"`
	DefaultTenantID    string `yaml:"default_tenant_id"`
	MaxUploadBytes     int64  `yaml:"max_upload_bytes"`
}

// PhoneConfig translates the YAML settings into the importer's phone
// canonicalization config.
func (c ImporterConfig) PhoneConfig() (importer.PhoneConfig, error) {
	switch c.PhonePolicy {
	case "", "local8":
		return importer.PhoneConfig{Policy: importer.PolicyLocal8}, nil
	case "e164":
		return importer.PhoneConfig{
			Policy:             importer.PolicyE164,
			DefaultCountryCode: c.DefaultCountryCode,
		}, nil
	}
	return importer.PhoneConfig{}, fmt.Errorf("unknown phone policy %q", c.PhonePolicy)
}

// DelimiterRune returns the configured field delimiter
func (c ImporterConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

// AuthConfig holds tenant JWT authentication configuration
type AuthConfig struct {
	Enabled         bool   `yaml:"enabled"`
	PublicKeyPath   string `yaml:"public_key_path"`
	FlagsTTLSeconds int    `yaml:"flags_ttl_seconds"`
	NegativeTTLSecs int    `yaml:"negative_ttl_seconds"`
	DefaultTenantID string `yaml:"default_tenant_id"`
}

// FlagsTTL returns how long cached tenant flags stay fresh
func (c AuthConfig) FlagsTTL() time.Duration {
	return time.Duration(c.FlagsTTLSeconds) * time.Second
}

// NegativeTTL returns how long a failed flags lookup is cached
func (c AuthConfig) NegativeTTL() time.Duration {
	return time.Duration(c.NegativeTTLSecs) * time.Second
}

// ArchiveConfig holds S3 archival settings for uploaded CSV files
type ArchiveConfig struct {
	Enabled    bool   `yaml:"enabled"`
	S3Bucket   string `yaml:"s3_bucket"`
	S3Region   string `yaml:"s3_region"`
	AWSProfile string `yaml:"aws_profile"` // Empty string uses default credential chain (IAM role on ECS)
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c ArchiveConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return "" // Use default credential chain (IAM role)
		}
		return envProfile
	}
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// CORSConfig holds allowed origins for the dashboard frontend
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifeMins == 0 {
		cfg.Database.ConnMaxLifeMins = 30
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Importer.DefaultTenantID == "" {
		cfg.Importer.DefaultTenantID = "zain_bh"
	}
	if cfg.Importer.MaxUploadBytes == 0 {
		cfg.Importer.MaxUploadBytes = 10 << 20
	}
	if cfg.Auth.FlagsTTLSeconds == 0 {
		cfg.Auth.FlagsTTLSeconds = 30
	}
	if cfg.Auth.NegativeTTLSecs == 0 {
		cfg.Auth.NegativeTTLSecs = 5
	}
	if cfg.Auth.DefaultTenantID == "" {
		cfg.Auth.DefaultTenantID = cfg.Importer.DefaultTenantID
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}
	if tenant := os.Getenv("DEFAULT_TENANT_ID"); tenant != "" {
		cfg.Importer.DefaultTenantID = tenant
		cfg.Auth.DefaultTenantID = tenant
	}
	if keyPath := os.Getenv("AUTH_PUBLIC_KEY_PATH"); keyPath != "" {
		cfg.Auth.PublicKeyPath = keyPath
	}
	if bucket := os.Getenv("ARCHIVE_S3_BUCKET"); bucket != "" {
		cfg.Archive.S3Bucket = bucket
	}
	if region := os.Getenv("ARCHIVE_S3_REGION"); region != "" {
		cfg.Archive.S3Region = region
	}

	return cfg, nil
}
