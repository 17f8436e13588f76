package config

import (
	"time"

	"github.com/joho/godotenv"
)

type MongoConfig struct {
	URI                    string
	Database               string
	AppName                string
	Direct                 bool
	Timeout                time.Duration
	MaxPoolSize            uint64
	MinPoolSize            uint64
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
}

type RabbitMQConfig struct {
	URL             string
	MaxRetries      int
	RetryDelay      time.Duration
	ExchangeConfigs []ExchangeConfig
}

type ExchangeConfig struct {
	Name       string
	Type       string // direct, topic, fanout, headers
	Durable    bool
	AutoDelete bool
}

type RedisConfig struct {
	URL         string
	Password    string
	DB          int
	KeyPrefix   string
	PoolSize    int
	DialTimeout time.Duration
}

type OutboxConfig struct {
	BatchSize      int
	Interval       time.Duration
	PublishTimeout time.Duration
}

type HTTPConfig struct {
	Port           string
	BindInterface  string
	AllowedOrigins []string
}

type AuthConfig struct {
	JWTSecret  string
	JWTIssuer  string
	TokenTTL   time.Duration
	BcryptCost int
}

const (
	StorageDriverLocal = "local"
	StorageDriverGCS   = "gcs"
)

type StorageConfig struct {
	Driver         string
	UploadDir      string
	PublicPrefix   string
	GCSBucket      string
	CDNDomain      string
	MaxUploadBytes int64
}

type ProductConfig struct {
	StorageTimeout    time.Duration
	RepositoryTimeout time.Duration
	CacheTTL          time.Duration
}

type IdempotencyConfig struct {
	TTL          time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration
}

type RateLimitConfig struct {
	AuthLimit  int
	WriteLimit int
	Window     time.Duration
}

type Config struct {
	Mongo       MongoConfig
	Redis       RedisConfig
	RabbitMQ    RabbitMQConfig
	Outbox      OutboxConfig
	HTTP        HTTPConfig
	Logger      LoggerConfig
	Auth        AuthConfig
	Storage     StorageConfig
	Product     ProductConfig
	Idempotency IdempotencyConfig
	RateLimit   RateLimitConfig
}

type LoggerConfig struct {
	Endpoint     string
	ServiceName  string
	Level        string
	IsProduction bool
}

func NewConfig() *Config {
	_ = godotenv.Load()
	return &Config{
		Mongo: MongoConfig{
			URI:                    getStringEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:               getStringEnv("MONGO_DATABASE", "catalog"),
			AppName:                getStringEnv("MONGO_APP_NAME", "catalog"),
			Direct:                 getBoolEnv("MONGO_DIRECT", false),
			Timeout:                time.Duration(getIntEnv("MONGO_TIMEOUT", 10)) * time.Second,
			MaxPoolSize:            uint64(getIntEnv("MONGO_MAX_POOL_SIZE", 100)),
			MinPoolSize:            uint64(getIntEnv("MONGO_MIN_POOL_SIZE", 10)),
			ConnectTimeout:         time.Duration(getIntEnv("MONGO_CONNECT_TIMEOUT", 10)) * time.Second,
			ServerSelectionTimeout: time.Duration(getIntEnv("MONGO_SERVER_SELECTION_TIMEOUT", 5)) * time.Second,
		},
		Redis: RedisConfig{
			URL:         getStringEnv("REDIS_URL", "redis://localhost:6379"),
			Password:    getStringEnv("REDIS_PASSWORD", ""),
			DB:          getIntEnv("REDIS_DB", 0),
			KeyPrefix:   getStringEnv("REDIS_KEY_PREFIX", "catalog"),
			PoolSize:    getIntEnv("REDIS_POOL_SIZE", 0),
			DialTimeout: time.Duration(getIntEnv("REDIS_DIAL_TIMEOUT", 5)) * time.Second,
		},
		Outbox: OutboxConfig{
			BatchSize:      getIntEnv("OUTBOX_BATCH_SIZE", 100),
			Interval:       time.Duration(getIntEnv("OUTBOX_INTERVAL", 500)) * time.Millisecond,
			PublishTimeout: time.Duration(getIntEnv("OUTBOX_PUBLISH_TIMEOUT", 10)) * time.Second,
		},
		HTTP: HTTPConfig{
			Port:           getStringEnv("HTTP_PORT", "8080"),
			BindInterface:  getStringEnv("HTTP_BIND_INTERFACE", "0.0.0.0"),
			AllowedOrigins: getStringSliceEnv("HTTP_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		RabbitMQ: RabbitMQConfig{
			URL:        getStringEnv("RABBITMQ_URL", "amqp://localhost:5672"),
			MaxRetries: getIntEnv("RABBITMQ_MAX_RETRIES", 3),
			RetryDelay: time.Duration(getIntEnv("RABBITMQ_RETRY_DELAY", 1)) * time.Second,
			ExchangeConfigs: []ExchangeConfig{
				{
					Name:       getStringEnv("RABBITMQ_EXCHANGE_NAME", "exchange.product"),
					Type:       getStringEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
					Durable:    getBoolEnv("RABBITMQ_EXCHANGE_DURABLE", true),
					AutoDelete: getBoolEnv("RABBITMQ_EXCHANGE_AUTO_DELETE", false),
				},
			},
		},
		Logger: LoggerConfig{
			Endpoint:     getStringEnv("OTEL_ENDPOINT", "localhost:4317"),
			ServiceName:  getStringEnv("OTEL_SERVICE_NAME", "catalog"),
			Level:        getStringEnv("LOG_LEVEL", "DEBUG"),
			IsProduction: getBoolEnv("IS_PRODUCTION", false),
		},
		Auth: AuthConfig{
			JWTSecret:  getStringEnv("JWT_SECRET", "change-me-in-production"),
			JWTIssuer:  getStringEnv("JWT_ISSUER", "catalog"),
			TokenTTL:   time.Duration(getIntEnv("JWT_EXPIRES_IN_SEC", 3600)) * time.Second,
			BcryptCost: getIntEnv("BCRYPT_COST", 10),
		},
		Storage: StorageConfig{
			Driver:         getStringEnv("STORAGE_DRIVER", StorageDriverLocal),
			UploadDir:      getStringEnv("STORAGE_UPLOAD_DIR", "uploads"),
			PublicPrefix:   getStringEnv("STORAGE_PUBLIC_PREFIX", "/uploads"),
			GCSBucket:      getStringEnv("STORAGE_GCS_BUCKET", ""),
			CDNDomain:      getStringEnv("STORAGE_CDN_DOMAIN", ""),
			MaxUploadBytes: int64(getIntEnv("STORAGE_MAX_UPLOAD_MB", 10)) << 20,
		},
		Product: ProductConfig{
			StorageTimeout:    time.Duration(getIntEnv("PRODUCT_STORAGE_TIMEOUT", 15)) * time.Second,
			RepositoryTimeout: time.Duration(getIntEnv("PRODUCT_REPOSITORY_TIMEOUT", 5)) * time.Second,
			CacheTTL:          time.Duration(getIntEnv("PRODUCT_CACHE_TTL", 900)) * time.Second,
		},
		Idempotency: IdempotencyConfig{
			TTL:          time.Duration(getIntEnv("IDEMPOTENCY_TTL", 900)) * time.Second,
			PollInterval: time.Duration(getIntEnv("IDEMPOTENCY_POLL_INTERVAL_MS", 1000)) * time.Millisecond,
			PollTimeout:  time.Duration(getIntEnv("IDEMPOTENCY_POLL_TIMEOUT", 10)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			AuthLimit:  getIntEnv("RATE_LIMIT_AUTH", 10),
			WriteLimit: getIntEnv("RATE_LIMIT_WRITE", 30),
			Window:     time.Duration(getIntEnv("RATE_LIMIT_WINDOW", 60)) * time.Second,
		},
	}
}
