package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AdzunaBaseURL  string
	AdzunaCountry  string
	AdzunaAppID    string
	AdzunaAppKey   string
	AdzunaTimeout  time.Duration
	ResultsPerPage int
	PagesPerSearch int

	ScrapeRoles     []string
	ScrapeLocations []string
	ScrapeInterval  time.Duration
	MaxRetries      int
	RetryDelay      time.Duration

	NATSURL         string
	NATSConnTimeout time.Duration

	ClickHouseDSN          string
	ClickHouseMaxOpenConns int
	ClickHouseMaxIdleConns int
	ClickHouseConnMaxLife  time.Duration
	ClickHouseUsername     string
	ClickHousePassword     string
	ClickHouseDatabase     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	HTTPAddr               string
	CatalogWindowDays      int
	CatalogRefreshInterval time.Duration
	CatalogCSVDir          string

	OTLPEndpoint string
}

func LoadConfig() (*Config, error) {
	// Optional .env for local development; env vars always win.
	_ = godotenv.Load()

	config := &Config{
		AdzunaBaseURL:  getEnvString("ADZUNA_BASE_URL", "https://api.adzuna.com/v1/api/jobs"),
		AdzunaCountry:  getEnvString("ADZUNA_COUNTRY", "in"),
		AdzunaAppID:    getEnvString("ADZUNA_APP_ID", ""),
		AdzunaAppKey:   getEnvString("ADZUNA_APP_KEY", ""),
		AdzunaTimeout:  getEnvDuration("ADZUNA_TIMEOUT", 10*time.Second),
		ResultsPerPage: getEnvInt("RESULTS_PER_PAGE", 50),
		PagesPerSearch: getEnvInt("PAGES_PER_SEARCH", 2),

		ScrapeRoles: getEnvStrings("SCRAPE_ROLES", []string{
			"software engineer", "backend developer", "frontend developer",
			"full stack developer", "python developer", "data scientist",
			"devops engineer", "machine learning engineer", "java developer",
			"react developer", "cloud engineer", "qa engineer",
		}),
		ScrapeLocations: getEnvStrings("SCRAPE_LOCATIONS", []string{
			"Bangalore", "Mumbai", "Delhi", "Hyderabad", "Pune", "Chennai",
		}),
		ScrapeInterval: getEnvDuration("SCRAPE_INTERVAL", 6*time.Hour),
		MaxRetries:     getEnvInt("MAX_RETRIES", 2),
		RetryDelay:     getEnvDuration("RETRY_DELAY", time.Second),

		NATSURL:         getEnvString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		ClickHouseDSN:          getEnvString("CLICKHOUSE_DSN", "localhost:9000"),
		ClickHouseMaxOpenConns: getEnvInt("CLICKHOUSE_MAX_OPEN_CONNS", 10),
		ClickHouseMaxIdleConns: getEnvInt("CLICKHOUSE_MAX_IDLE_CONNS", 5),
		ClickHouseConnMaxLife:  getEnvDuration("CLICKHOUSE_CONN_MAX_LIFE", time.Hour),
		ClickHouseUsername:     getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:     getEnvString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase:     getEnvString("CLICKHOUSE_DATABASE", "jobradar"),

		RedisAddr:     getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", time.Hour),

		HTTPAddr:               getEnvString("HTTP_ADDR", ":8080"),
		CatalogWindowDays:      getEnvInt("CATALOG_WINDOW_DAYS", 30),
		CatalogRefreshInterval: getEnvDuration("CATALOG_REFRESH_INTERVAL", time.Hour),
		CatalogCSVDir:          getEnvString("CATALOG_CSV_DIR", "data"),

		OTLPEndpoint: getEnvString("OTLP_ENDPOINT", ""),
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvStrings(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
