// Package config loads runtime configuration from the environment and the
// species schema from YAML.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Species source: "memory" loads DataDir, "surreal" uses SurrealDB.
	Store      string
	DataDir    string
	SchemaFile string

	// HTTP server
	ServerPort int

	// MCP server: "stdio" or "http", and the listen address for "http"
	MCPTransport string
	MCPAddr      string

	// Rendering limits
	SelectionCap int
	PayloadCap   int

	// Logging
	LogFile   string
	LogLevel  slog.Level
	LogFormat string
}

// Store backends.
const (
	StoreMemory  = "memory"
	StoreSurreal = "surreal"
)

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "amorph"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "species"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		Store:      parseStore(getEnv("AMORPH_STORE", StoreMemory)),
		DataDir:    getEnv("AMORPH_DATA_DIR", "data/species"),
		SchemaFile: getEnv("AMORPH_SCHEMA_FILE", ""),

		ServerPort: getEnvInt("AMORPH_SERVER_PORT", 8484),

		MCPTransport: strings.ToLower(getEnv("AMORPH_MCP_TRANSPORT", "stdio")),
		MCPAddr:      getEnv("AMORPH_MCP_ADDR", "localhost:8485"),

		SelectionCap: getEnvInt("AMORPH_SELECTION_CAP", 24),
		PayloadCap:   getEnvInt("AMORPH_PAYLOAD_CAP", 10*1024),

		LogFile:   getEnv("AMORPH_LOG_FILE", "/tmp/amorph.log"),
		LogLevel:  parseLogLevel(getEnv("AMORPH_LOG_LEVEL", "INFO")),
		LogFormat: getEnv("AMORPH_LOG_FORMAT", LogFormatText),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", val, "default", defaultVal)
		return defaultVal
	}
	return n
}

func parseStore(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case StoreSurreal, "surrealdb":
		return StoreSurreal
	default:
		return StoreMemory
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
