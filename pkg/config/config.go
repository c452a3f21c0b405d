package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageDynamoDB = "dynamodb"
)

var Empty = new(Config)

type Config struct {
	AppEnv       string  `envconfig:"APP_ENV" default:"local"`
	Port         int     `envconfig:"PORT" default:"8080"`
	SentryDSN    string  `envconfig:"SENTRY_DSN"`
	AllowOrigins string  `envconfig:"ALLOW_ORIGINS"`
	RateLimit    float64 `envconfig:"RATE_LIMIT"`
	LogLevel     string  `envconfig:"LOG_LEVEL" default:"info"`

	Storage string `envconfig:"STORAGE_DRIVER" default:"memory"`

	DB struct {
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	SQLite struct {
		Path string `envconfig:"SQLITE_PATH" default:"contacts.db"`
	}
	DynamoDB struct {
		Region        string `envconfig:"DDB_REGION"`
		Endpoint      string `envconfig:"DDB_ENDPOINT"`
		AccessKey     string `envconfig:"DDB_ACCESS_KEY"`
		SecretKey     string `envconfig:"DDB_SECRET_KEY"`
		SessionToken  string `envconfig:"DDB_SESSION_TOKEN"`
		ContactsTable string `envconfig:"DDB_CONTACTS_TABLE" default:"contacts"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	switch cfg.Storage {
	case StorageMemory, StoragePostgres, StorageSQLite, StorageDynamoDB:
	default:
		return nil, fmt.Errorf("load config error: unknown storage driver %q", cfg.Storage)
	}

	return cfg, nil
}
