package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full process configuration, loaded from the environment so
// main stays lean. Optional integrations (Redis, Postgres, Kafka) stay off
// when their address is empty.
type Config struct {
	Bot         BotConfig         `env-prefix:"BOT_"`
	RecordStore RecordStoreConfig `env-prefix:"RECORD_STORE_"`
	Reconcile   ReconcileConfig   `env-prefix:"RECONCILE_"`
	Notify      NotifyConfig      `env-prefix:"NOTIFY_"`
	API         APIConfig         `env-prefix:"API_"`
	Redis       RedisConfig       `env-prefix:"REDIS_"`
	Audit       AuditConfig       `env-prefix:"AUDIT_"`
	Partner     PartnerConfig     `env-prefix:"PARTNER_"`
	Dev         bool              `env:"DEV_MODE" env-default:"false"`
}

type BotConfig struct {
	Token           string `env:"TOKEN" env-required:"true"`
	AdminChatID     int64  `env:"ADMIN_CHAT_ID" env-default:"0"`
	DefaultPhotoURL string `env:"DEFAULT_PHOTO_URL" env-default:"https://example.com/default.png"`
	WebAppURL       string `env:"WEBAPP_URL" env-default:"http://localhost:5173"`
}

type RecordStoreConfig struct {
	BaseURL       string        `env:"BASE_URL" env-default:"https://api.airtable.com/v0"`
	BaseID        string        `env:"BASE_ID" env-required:"true"`
	APIKey        string        `env:"API_KEY" env-required:"true"`
	Table         string        `env:"TABLE" env-default:"Experts"`
	Timeout       time.Duration `env:"TIMEOUT" env-default:"10s"`
	MaxRetries    int           `env:"MAX_RETRIES" env-default:"3"`
	MinBackoff    time.Duration `env:"MIN_BACKOFF" env-default:"1s"`
	MaxBackoff    time.Duration `env:"MAX_BACKOFF" env-default:"10s"`
	RateLimitWait time.Duration `env:"RATE_LIMIT_WAIT" env-default:"30s"`
}

type ReconcileConfig struct {
	Interval   time.Duration `env:"INTERVAL" env-default:"30m"`
	CacheReset time.Duration `env:"CACHE_RESET" env-default:"24h"`
}

type NotifyConfig struct {
	QueueSize int `env:"QUEUE_SIZE" env-default:"256"`
}

type APIConfig struct {
	Addr     string        `env:"ADDR" env-default:":8080"`
	CacheTTL time.Duration `env:"CACHE_TTL" env-default:"5m"`
}

type RedisConfig struct {
	URL          string        `env:"URL" env-default:""`
	PoolSize     int           `env:"POOL_SIZE" env-default:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" env-default:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" env-default:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" env-default:"3s"`
}

type AuditConfig struct {
	PostgresDSN  string `env:"POSTGRES_DSN" env-default:""`
	KafkaBrokers string `env:"KAFKA_BROKERS" env-default:""`
	KafkaTopic   string `env:"KAFKA_TOPIC" env-default:"profile-submissions"`
}

type PartnerConfig struct {
	// StorePath persists partnership requests across restarts; empty keeps
	// them in memory only.
	StorePath string `env:"STORE_PATH" env-default:""`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
