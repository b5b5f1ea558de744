package config

import (
	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
	"net/http"
	"os"
)

type AppConfig struct {
	DatabaseConfig DatabaseConfig `yaml:"databaseConfig"`
	RedisConfig    RedisConfig    `yaml:"redisConfig"`
	ServerAddr     string         `yaml:"serverAddr"`
	Storage        StorageConfig  `yaml:"storage"`
	Session        SessionConfig  `yaml:"session"`
	Upload         UploadConfig   `yaml:"upload"`
	Cache          CacheConfig    `yaml:"cache"`
}

func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults : значения по умолчанию для необязательных полей конфигурации
func (cfg *AppConfig) applyDefaults() {
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "dms_session"
	}
	if cfg.Session.SessionTTL == "" {
		cfg.Session.SessionTTL = "12h"
	}
	if cfg.Upload.MaxSizeBytes == 0 {
		cfg.Upload.MaxSizeBytes = 10 * 1024 * 1024
	}
	if len(cfg.Upload.AllowedExtensions) == 0 {
		cfg.Upload.AllowedExtensions = []string{"pdf", "jpg", "jpeg", "png", "gif"}
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.ContentRoot == "" {
		cfg.Storage.ContentRoot = "media"
	}
	if cfg.Cache.PermissionsTTL == 0 {
		cfg.Cache.PermissionsTTL = 300
	}
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
