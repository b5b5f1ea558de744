package config

import "github.com/aws/aws-sdk-go-v2/service/s3"

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// StorageConfig : выбор бэкенда хранения файлов
// Type = "local" — файлы лежат под ContentRoot на диске
// Type = "s3" — файлы в S3 или MinIO
type StorageConfig struct {
	Type        string   `yaml:"type"`
	ContentRoot string   `yaml:"content_root"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Client   *s3.Client
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

type SessionConfig struct {
	SecretKey  string `yaml:"secret_key"`
	SessionTTL string `yaml:"session_ttl"`
	CookieName string `yaml:"cookie_name"`
}

// UploadConfig : ограничения на загружаемые документы
type UploadConfig struct {
	MaxSizeBytes      int64    `yaml:"max_size_bytes"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// CacheConfig : TTL кэша прав пользователей (в секундах)
type CacheConfig struct {
	PermissionsTTL int `yaml:"permissions_ttl"`
}
