package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr      string `yaml:"listen_addr"`
	Port            string `yaml:"port"`
	DatabaseDriver  string `yaml:"database_driver"`
	DatabasePath    string `yaml:"database_path"`
	DatabaseDSN     string `yaml:"database_dsn"`
	SessionSecret   string `yaml:"session_secret"`
	GinMode         string `yaml:"gin_mode"`
	UploadDir       string `yaml:"upload_dir"`
	UploadURLPath   string `yaml:"upload_url_path"`
	CloudinaryURL   string `yaml:"cloudinary_url"`
	LogMode         string `yaml:"log_mode"`
	SiteBaseURL     string `yaml:"site_base_url"`
	DefaultLanguage string `yaml:"default_language"`
}

// ConfigFileEnv 指向可选的 YAML 配置文件，文件中的值会被同名环境变量覆盖。
const ConfigFileEnv = "SITECRAFT_CONFIG"

// Load 读取配置文件（若有）与环境变量，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	return LoadPath(os.Getenv(ConfigFileEnv))
}

// LoadPath 与 Load 相同，但由调用方指定配置文件；path 为空时只读环境变量。
func LoadPath(path string) (AppConfig, error) {
	var base AppConfig
	if path = strings.TrimSpace(path); path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return AppConfig{}, err
		}
		base = file
	}
	return withDefaults(overlayEnv(base)), nil
}

// LoadFile 解析 YAML 配置文件。
func LoadFile(path string) (AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func overlayEnv(cfg AppConfig) AppConfig {
	fields := []struct {
		env string
		dst *string
	}{
		{"PORT", &cfg.Port},
		{"LISTEN_ADDR", &cfg.ListenAddr},
		{"DATABASE_DRIVER", &cfg.DatabaseDriver},
		{"DATABASE_PATH", &cfg.DatabasePath},
		{"DATABASE_DSN", &cfg.DatabaseDSN},
		{"SESSION_SECRET", &cfg.SessionSecret},
		{"GIN_MODE", &cfg.GinMode},
		{"UPLOAD_DIR", &cfg.UploadDir},
		{"UPLOAD_URL_PATH", &cfg.UploadURLPath},
		{"CLOUDINARY_URL", &cfg.CloudinaryURL},
		{"LOG_MODE", &cfg.LogMode},
		{"SITE_BASE_URL", &cfg.SiteBaseURL},
		{"DEFAULT_LANGUAGE", &cfg.DefaultLanguage},
	}
	for _, field := range fields {
		if value := strings.TrimSpace(os.Getenv(field.env)); value != "" {
			*field.dst = value
		}
	}
	return cfg
}

func withDefaults(cfg AppConfig) AppConfig {
	cfg.Port = fallback(cfg.Port, "8080")
	cfg.ListenAddr = fallback(cfg.ListenAddr, fmt.Sprintf(":%s", cfg.Port))
	cfg.DatabaseDriver = strings.ToLower(fallback(cfg.DatabaseDriver, "sqlite"))
	cfg.DatabasePath = fallback(cfg.DatabasePath, "sitecraft.db")
	cfg.DatabaseDSN = strings.TrimSpace(cfg.DatabaseDSN)
	cfg.SessionSecret = fallback(cfg.SessionSecret, "sitecraft-dev-secret")
	cfg.GinMode = fallback(cfg.GinMode, "release")
	cfg.UploadDir = fallback(cfg.UploadDir, "web/static/uploads")
	cfg.UploadURLPath = fallback(cfg.UploadURLPath, "/static/uploads")
	cfg.CloudinaryURL = strings.TrimSpace(cfg.CloudinaryURL)
	cfg.LogMode = fallback(cfg.LogMode, "production")
	cfg.SiteBaseURL = strings.TrimRight(fallback(cfg.SiteBaseURL, "http://localhost:8080"), "/")
	cfg.DefaultLanguage = fallback(cfg.DefaultLanguage, "zh")
	return cfg
}

func fallback(value, def string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return def
}
