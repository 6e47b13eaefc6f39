package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

const (
	KVBackendMemory = "memory"
	KVBackendSQL    = "sql"
	KVBackendRedis  = "redis"
)

type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	Env       string `env:"APP_ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// KVBackend selects where session preferences and the user blob live.
	KVBackend string `env:"KV_BACKEND" envDefault:"memory"`

	DBDriver               string `env:"DB_DRIVER" envDefault:"mysql"`
	DBUser                 string `env:"DB_USER"`
	DBPassword             string `env:"DB_PASSWORD"`
	DBHost                 string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	GeminiAPIKey     string        `env:"GEMINI_API_KEY"`
	GeminiTextModel  string        `env:"GEMINI_TEXT_MODEL" envDefault:"gemini-3-flash-preview"`
	GeminiImageModel string        `env:"GEMINI_IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`
	GeminiTimeout    time.Duration `env:"GEMINI_TIMEOUT" envDefault:"0s"`

	StorageBucket         string `env:"STORAGE_BUCKET"`
	GoogleCredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE"`

	AIRatePerSecond float64 `env:"AI_RATE_PER_SECOND" envDefault:"0"`
	AIRateBurst     int     `env:"AI_RATE_BURST" envDefault:"5"`

	CORSAllowedSuffixes []string `env:"CORS_ALLOWED_SUFFIXES" envSeparator:"," envDefault:"vercel.app"`

	// BodyLimit caps request bodies; inline images and video arrive as data URLs.
	BodyLimit string `env:"BODY_LIMIT" envDefault:"20M"`

	SessionIdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"2h"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "local"
}
