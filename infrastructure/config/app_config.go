package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"drivesync/database"
	"drivesync/domain/drive"
	"drivesync/logging"
)

// Source maps one Drive folder to the collection its records land in.
// Attribute marks sources whose records get created_by derived from their
// parent folder name.
type Source struct {
	Name       string `json:"name"`
	FolderID   string `json:"folderId"`
	Collection string `json:"collection"`
	Attribute  bool   `json:"attribute"`
}

// AppConfig holds application-wide system configuration.
// This is infrastructure configuration, not per-run filter input.
type AppConfig struct {
	HTTPAddr    string
	HTTPLogPath string
	Sources     []Source
	Filter      drive.FilterRequest
	Database    *database.Config
	Logging     *logging.Config
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() (*AppConfig, error) {
	sources, err := loadSourcesFromEnv()
	if err != nil {
		return nil, err
	}
	return &AppConfig{
		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", ":8080"),
		HTTPLogPath: getEnvWithDefault("HTTP_LOG_PATH", ""),
		Sources:     sources,
		Filter:      loadFilterFromEnv(),
		Database:    LoadDatabaseConfigFromEnv(),
		Logging:     LoadLoggingConfigFromEnv(),
	}, nil
}

// loadSourcesFromEnv parses the SOURCES env var, a JSON array of source
// mappings.
func loadSourcesFromEnv() ([]Source, error) {
	raw := os.Getenv("SOURCES")
	if raw == "" {
		return nil, nil
	}
	var sources []Source
	if err := json.Unmarshal([]byte(raw), &sources); err != nil {
		return nil, fmt.Errorf("parse SOURCES: %w", err)
	}
	for i, s := range sources {
		if s.FolderID == "" || s.Collection == "" {
			return nil, fmt.Errorf("SOURCES[%d]: folderId and collection are required", i)
		}
	}
	return sources, nil
}

// loadFilterFromEnv builds the default per-run filter. Dates default to
// today (UTC), matching the daily-batch usage.
func loadFilterFromEnv() drive.FilterRequest {
	today := time.Now().UTC().Format(drive.DateLayout)
	return drive.FilterRequest{
		StartDate:        getEnvWithDefault("START_DATE", today),
		EndDate:          getEnvWithDefault("END_DATE", today),
		SearchType:       drive.SearchType(getEnvWithDefault("SEARCH_TYPE", string(drive.SearchTypeCreated))),
		Recursive:        getEnvBoolWithDefault("RECURSIVE", true),
		FileTypes:        splitList(os.Getenv("FILE_TYPES")),
		FilenameKeywords: splitList(os.Getenv("FILENAME_KEYWORDS")),
		ExcludeKeywords:  splitList(os.Getenv("EXCLUDE_KEYWORDS")),
		Debug:            getEnvBoolWithDefault("DEBUG", false),
	}
}

// LoadDatabaseConfigFromEnv loads persisted-store configuration from environment variables.
func LoadDatabaseConfigFromEnv() *database.Config {
	return &database.Config{
		URI:            getEnvWithDefault("MONGO_URI", "mongodb://localhost:27017"),
		Username:       os.Getenv("MONGO_USER"),
		Password:       os.Getenv("MONGO_PASSWORD"),
		AuthSource:     os.Getenv("MONGO_AUTH_SOURCE"),
		Database:       getEnvWithDefault("MONGO_DATABASE", "drivesync"),
		MaxPoolSize:    uint64(getEnvIntWithDefault("MONGO_MAX_POOL_SIZE", 25)),
		ConnectTimeout: getEnvDurationWithDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		PingTimeout:    getEnvDurationWithDefault("MONGO_PING_TIMEOUT", 5*time.Second),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration from environment variables.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "json"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stdout"),
	}
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Helper functions for environment variable parsing.
func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
