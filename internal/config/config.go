package config

import (
	"fmt"
	"os"

	"workspace-service/internal/generation"
	"workspace-service/internal/storage"
	"workspace-service/pkg/database/postgres"
	"workspace-service/pkg/database/redis"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTPPort    string `env:"HTTP_PORT" env-default:"8080"`
	JWTSecret   string `env:"JWT_TOKEN"`
	MaxFileSize int64  `env:"MAX_FILE_SIZE" env-default:"10485760"`

	Postgres   postgres.Config
	Redis      redis.Config
	MinIO      storage.Config
	Generation generation.Config
}

// New читает ./config/local.env; если файла нет — берёт переменные окружения.
func New() (*Config, error) {
	var cfg Config

	const localEnv = "./config/local.env"
	if _, err := os.Stat(localEnv); err == nil {
		if err := cleanenv.ReadConfig(localEnv, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", localEnv, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config from environment: %w", err)
	}
	return &cfg, nil
}
