package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      int
	LogLevel  string
	Env       string
	Seed      int64
	Auth      AuthConfig
	Outbox    OutboxConfig
	DB        DBConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// AuthConfig holds token and password hashing settings
type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// OutboxConfig selects where domain events are stored and how often they are relayed
type OutboxConfig struct {
	Driver       string
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
}

// DBConfig holds the database configuration
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// KafkaConfig holds the Kafka producer settings. No brokers means events are only logged.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// RedisConfig holds the token revocation store settings. Empty Addr keeps revocations in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig throttles the public auth endpoints per client IP
type RateLimitConfig struct {
	Burst             float64
	PerSecond         float64
	TrustForwardedFor bool
}

const (
	OutboxDriverMemory   = "memory"
	OutboxDriverPostgres = "postgres"
)

// getEnv retrieves the value of an environment variable or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	v, err := strconv.ParseFloat(getEnv(key, strconv.FormatFloat(defaultValue, 'f', -1, 64)), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v, err := time.ParseDuration(getEnv(key, defaultValue.String()))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load reads the configuration from environment variables and returns a Config struct.
// A .env file in the working directory is loaded first when present; real environment
// variables take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, err
	}

	dbPort, err := getInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	tokenTTL, err := getDuration("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	bcryptCost, err := getInt("BCRYPT_COST", 10)
	if err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if raw := getEnv("SEED", ""); raw != "" {
		if seed, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid SEED: %w", err)
		}
	}

	pollInterval, err := getDuration("OUTBOX_POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}

	batchSize, err := getInt("OUTBOX_BATCH_SIZE", 10)
	if err != nil {
		return nil, err
	}

	maxRetries, err := getInt("OUTBOX_MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}

	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	burst, err := getFloat("LOGIN_RATE_BURST", 10)
	if err != nil {
		return nil, err
	}

	perSecond, err := getFloat("LOGIN_RATE_PER_SEC", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:     port,
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Env:      getEnv("APP_ENV", "development"),
		Seed:     seed,
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", "backoffice-dev-secret"),
			TokenTTL:   tokenTTL,
			BcryptCost: bcryptCost,
		},
		Outbox: OutboxConfig{
			Driver:       strings.ToLower(getEnv("OUTBOX_DRIVER", OutboxDriverMemory)),
			PollInterval: pollInterval,
			BatchSize:    batchSize,
			MaxRetries:   maxRetries,
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "backoffice"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "backoffice-events"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			Burst:             burst,
			PerSecond:         perSecond,
			TrustForwardedFor: getEnv("TRUST_FORWARDED_FOR", "false") == "true",
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Outbox.Driver != OutboxDriverMemory && c.Outbox.Driver != OutboxDriverPostgres {
		return fmt.Errorf("unsupported OUTBOX_DRIVER %q", c.Outbox.Driver)
	}
	if c.Outbox.PollInterval <= 0 {
		return errors.New("OUTBOX_POLL_INTERVAL must be positive")
	}
	if c.Env == "production" && c.Auth.JWTSecret == "backoffice-dev-secret" {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

// GetDBConnString returns the database connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}
