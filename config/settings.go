package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Defaults applied when the environment leaves a value unset or zero
const (
	DefaultHost               = "0.0.0.0"
	DefaultPort               = 8080
	DefaultGinMode            = "release"
	DefaultAllowedOrigins     = "*"
	DefaultMaxRequestBytes    = 1 << 20
	DefaultMaxConnections     = 25
	DefaultMaxIdleConnections = 5
	DefaultCandidateLimit     = 200
)

// Settings holds all configuration for the service
type Settings struct {
	Server    ServerSettings
	Store     StoreSettings
	Search    SearchSettings
	Analytics AnalyticsSettings
}

// ServerSettings holds HTTP server configuration
type ServerSettings struct {
	Host            string
	Port            int
	GinMode         string
	AllowedOrigins  []string
	MaxRequestBytes int64
}

// StoreSettings selects and configures the listing store
type StoreSettings struct {
	Driver             string // memory, postgres or sqlite
	DatabaseURL        string
	SeedFile           string // JSON array of listings loaded at startup
	SnapshotFile       string // gob snapshot for the memory store
	MaxConnections     int
	MaxIdleConnections int
}

// SearchSettings holds search pipeline configuration
type SearchSettings struct {
	CandidateLimit int
}

// AnalyticsSettings holds analytics configuration
type AnalyticsSettings struct {
	DataFile string // empty keeps events in memory only
}

// Load reads settings from environment variables. A .env file in the working
// directory is read first when present.
func Load() *Settings {
	_ = godotenv.Load()

	settings := &Settings{
		Server: ServerSettings{
			Host:            getEnv("SERVER_HOST", DefaultHost),
			Port:            getEnvAsInt("SERVER_PORT", DefaultPort),
			GinMode:         getEnv("GIN_MODE", DefaultGinMode),
			AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", DefaultAllowedOrigins)),
			MaxRequestBytes: getEnvAsInt64("MAX_REQUEST_BYTES", DefaultMaxRequestBytes),
		},
		Store: StoreSettings{
			Driver:             strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
			DatabaseURL:        getEnv("DATABASE_URL", ""),
			SeedFile:           getEnv("STORE_SEED_FILE", ""),
			SnapshotFile:       getEnv("STORE_SNAPSHOT_FILE", ""),
			MaxConnections:     getEnvAsInt("DB_MAX_CONNECTIONS", DefaultMaxConnections),
			MaxIdleConnections: getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", DefaultMaxIdleConnections),
		},
		Search: SearchSettings{
			CandidateLimit: getEnvAsInt("SEARCH_CANDIDATE_LIMIT", DefaultCandidateLimit),
		},
		Analytics: AnalyticsSettings{
			DataFile: getEnv("ANALYTICS_FILE", ""),
		},
	}

	settings.ApplyDefaults()
	return settings
}

// Addr returns the host:port the HTTP server listens on
func (settings *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
}

// ApplyDefaults fills zero values with their defaults
func (settings *Settings) ApplyDefaults() {
	if settings.Server.Host == "" {
		settings.Server.Host = DefaultHost
	}
	if settings.Server.Port == 0 {
		settings.Server.Port = DefaultPort
	}
	if settings.Server.GinMode == "" {
		settings.Server.GinMode = DefaultGinMode
	}
	if len(settings.Server.AllowedOrigins) == 0 {
		settings.Server.AllowedOrigins = []string{DefaultAllowedOrigins}
	}
	if settings.Server.MaxRequestBytes == 0 {
		settings.Server.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if settings.Store.Driver == "" {
		settings.Store.Driver = DriverMemory
	}
	if settings.Store.MaxConnections == 0 {
		settings.Store.MaxConnections = DefaultMaxConnections
	}
	if settings.Store.MaxIdleConnections == 0 {
		settings.Store.MaxIdleConnections = DefaultMaxIdleConnections
	}
	if settings.Search.CandidateLimit == 0 {
		settings.Search.CandidateLimit = DefaultCandidateLimit
	}
}

// Validate returns every configuration problem found. An empty result means
// the settings are usable.
func (settings *Settings) Validate() []string {
	var errors []string

	switch settings.Store.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if settings.Store.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required for store driver '"+settings.Store.Driver+"'")
		}
	default:
		errors = append(errors, "Unknown store driver '"+settings.Store.Driver+"' (must be memory, postgres or sqlite)")
	}

	if settings.Server.Port <= 0 || settings.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("Server port %d is out of range", settings.Server.Port))
	}
	switch settings.Server.GinMode {
	case "debug", "release", "test":
	default:
		errors = append(errors, "Unknown GIN_MODE '"+settings.Server.GinMode+"' (must be debug, release or test)")
	}
	if settings.Server.MaxRequestBytes <= 0 {
		errors = append(errors, "MAX_REQUEST_BYTES must be positive")
	}
	if settings.Search.CandidateLimit <= 0 {
		errors = append(errors, "SEARCH_CANDIDATE_LIMIT must be positive")
	}
	if settings.Store.MaxConnections < 0 || settings.Store.MaxIdleConnections < 0 {
		errors = append(errors, "Database connection limits must not be negative")
	}
	for _, origin := range settings.Server.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errors = append(errors, "CORS origin '"+origin+"' must be '*' or start with http:// or https://")
		}
	}
	if settings.Store.SnapshotFile != "" && settings.Store.Driver != DriverMemory {
		errors = append(errors, "STORE_SNAPSHOT_FILE is only supported by the memory store")
	}

	return errors
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

// splitList splits a comma separated value, dropping blank entries
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
