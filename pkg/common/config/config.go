package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort   string
	ServerHost   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Database. Driver is "sqlite" (default, the NZGD extraction snapshot)
	// or "postgres".
	DatabaseDriver string
	SQLitePath     string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis (optional extraction-result cache)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheEnabled  bool
	CacheTTL      time.Duration

	// Kafka (optional usage events)
	KafkaBrokers  []string
	KafkaTopic    string
	EventsEnabled bool

	// Correlation defaults used when a request omits a selection
	DefaultVsToVs30Correlation string
	DefaultCPTToVsCorrelation  string
	DefaultSPTToVsCorrelation  string
	DefaultHammerType          string

	// Optional yaml file overriding correlation depth thresholds
	CorrelationConfigPath string

	// Base URL for links to the raw NZGD source files
	SourceFilesBaseURL string
}

func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ServerHost:   getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		SQLitePath:     getEnv("SQLITE_PATH", "instance/extracted_nzgd.db"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "nzgd"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "nzgd123"),
		PostgresDB:       getEnv("POSTGRES_DB", "nzgd"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		CacheEnabled:  getBoolEnv("CACHE_ENABLED", false),
		CacheTTL:      getDuration("CACHE_TTL", 10*time.Minute),

		KafkaBrokers:  getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "nzgd-map.usage"),
		EventsEnabled: getBoolEnv("EVENTS_ENABLED", false),

		DefaultVsToVs30Correlation: getEnv("DEFAULT_VS_TO_VS30_CORRELATION", "boore_2004"),
		DefaultCPTToVsCorrelation:  getEnv("DEFAULT_CPT_TO_VS_CORRELATION", "andrus_2007_pleistocene"),
		DefaultSPTToVsCorrelation:  getEnv("DEFAULT_SPT_TO_VS_CORRELATION", "brandenberg_2010"),
		DefaultHammerType:          getEnv("DEFAULT_HAMMER_TYPE", "Auto"),

		CorrelationConfigPath: getEnv("CORRELATION_CONFIG_PATH", ""),

		SourceFilesBaseURL: getEnv("SOURCE_FILES_BASE_URL", "https://quakecoresoft.canterbury.ac.nz/nzgd_source_files/"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
