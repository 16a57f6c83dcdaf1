package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cloudinary   CloudinaryConfig
	Media        MediaConfig
	Idempotency  IdempotencyConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FRIPE_APP_ENV" required:"true"`
	Port         string `envconfig:"FRIPE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FRIPE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRIPE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"FRIPE_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"FRIPE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRIPE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRIPE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRIPE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional: when URL and Address are both empty the
// idempotency replay cache is disabled.
type RedisConfig struct {
	URL          string        `envconfig:"FRIPE_REDIS_URL"`
	Address      string        `envconfig:"FRIPE_REDIS_ADDR"`
	Password     string        `envconfig:"FRIPE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRIPE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRIPE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRIPE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRIPE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRIPE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRIPE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type CloudinaryConfig struct {
	CloudName string        `envconfig:"FRIPE_CLOUDINARY_CLOUD_NAME" required:"true"`
	APIKey    string        `envconfig:"FRIPE_CLOUDINARY_API_KEY" required:"true"`
	APISecret string        `envconfig:"FRIPE_CLOUDINARY_API_SECRET" required:"true"`
	Folder    string        `envconfig:"FRIPE_CLOUDINARY_FOLDER" default:"fripe"`
	Timeout   time.Duration `envconfig:"FRIPE_CLOUDINARY_TIMEOUT" default:"30s"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"FRIPE_MAX_UPLOAD_MB" default:"20"`
}

// MaxUploadBytes returns the multipart memory/file cap in bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	return int64(m.MaxUploadMB) << 20
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"FRIPE_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FRIPE_AUTO_MIGRATE" default:"false"`
}
