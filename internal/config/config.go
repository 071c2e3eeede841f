package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"

	CacheOff    = "off"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Env  string
	Port int

	StoreDriver   string
	DBURL         string
	MongoURI      string
	MongoDatabase string

	PasswordScheme string

	AveragesCache    string
	AveragesCacheTTL time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int

	CORSAllowedOrigins []string
	MaxBodyBytes       int64

	OTelEnabled  bool
	OTelEndpoint string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	SeedEmail    string
	SeedPassword string

	// Warnings collects values that could not be parsed and fell back to
	// their defaults.
	Warnings []string
}

// Load reads .env when present, then the process environment.
func Load() Config {
	_ = godotenv.Load()

	var warnings []string

	cfg := Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8000, &warnings),

		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StorePostgres)),
		DBURL:         buildDBURL(),
		MongoURI:      getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "eliteprep"),

		PasswordScheme: strings.ToLower(getEnv("PASSWORD_SCHEME", "plain")),

		AveragesCache:    strings.ToLower(getEnv("AVERAGES_CACHE", CacheOff)),
		AveragesCacheTTL: time.Duration(getEnvInt("AVERAGES_CACHE_TTL_SECONDS", 30, &warnings)) * time.Second,
		RedisAddr:        getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0, &warnings),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1<<20, &warnings)),

		OTelEnabled:  getEnvBool("OTEL_ENABLED", false, &warnings),
		OTelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		SeedEmail:    getEnv("SEED_EMAIL", ""),
		SeedPassword: getEnv("SEED_PASSWORD", ""),
	}

	cfg.Warnings = warnings
	return cfg
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StorePostgres, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER: unknown driver %q", c.StoreDriver)
	}

	switch c.AveragesCache {
	case CacheOff, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("AVERAGES_CACHE: unknown mode %q", c.AveragesCache)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT: %d out of range", c.Port)
	}

	return nil
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "eliteprep")
	pass := getEnv("DB_PASSWORD", "eliteprep")
	name := getEnv("DB_NAME", "eliteprep")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

// WithTimeout bounds a store call by d while keeping the request's values
// and cancellation.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, d)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int, warnings *[]string) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("%s=%q is not an integer, using %d", key, v, fallback))
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool, warnings *[]string) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("%s=%q is not a boolean, using %t", key, v, fallback))
			return fallback
		}
		return b
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
