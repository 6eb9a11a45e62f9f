package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Storage    StorageConfig    `yaml:"storage"`
	Mail       MailConfig       `yaml:"mail"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	CORS       CORSConfig       `yaml:"cors"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	PublicURL string `yaml:"public_url"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	SecretKey  string        `yaml:"secret_key"`
	AccessTTL  time.Duration `yaml:"access_ttl"`
	RefreshTTL time.Duration `yaml:"refresh_ttl"`
}

// UnmarshalYAML accepts the TTLs as duration strings ("30m", "168h").
// Fields absent from the document keep their current values.
func (c *AuthConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		SecretKey  string `yaml:"secret_key"`
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.SecretKey != "" {
		c.SecretKey = raw.SecretKey
	}
	if raw.AccessTTL != "" {
		ttl, err := time.ParseDuration(raw.AccessTTL)
		if err != nil {
			return fmt.Errorf("parsing access_ttl: %w", err)
		}
		c.AccessTTL = ttl
	}
	if raw.RefreshTTL != "" {
		ttl, err := time.ParseDuration(raw.RefreshTTL)
		if err != nil {
			return fmt.Errorf("parsing refresh_ttl: %w", err)
		}
		c.RefreshTTL = ttl
	}
	return nil
}

type StorageConfig struct {
	Backend    string   `yaml:"backend"` // "local" or "s3"
	UploadsDir string   `yaml:"uploads_dir"`
	S3         S3Config `yaml:"s3"`
}

type S3Config struct {
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type MonitoringConfig struct {
	ScreenshotIntervalMinutes int `yaml:"screenshot_interval_minutes"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			PublicURL: "http://localhost:8080",
		},
		Database: DatabaseConfig{
			Path: filepath.Join("data", "pulseboard.db"),
		},
		Auth: AuthConfig{
			SecretKey:  "change_me_in_production",
			AccessTTL:  30 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Storage: StorageConfig{
			Backend:    "local",
			UploadsDir: "uploads",
		},
		Mail: MailConfig{
			Port: 587,
			From: "no-reply@pulseboard.local",
		},
		Monitoring: MonitoringConfig{
			ScreenshotIntervalMinutes: 10,
		},
		CORS: CORSConfig{
			AllowedOrigins: "*",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PULSEBOARD_SECRET_KEY"); v != "" {
		cfg.Auth.SecretKey = v
	}
	if v := os.Getenv("PULSEBOARD_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("PULSEBOARD_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PULSEBOARD_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
