package config

import (
	"os"
	"strings"
)

const (
	DefaultTimeZone        = "Asia/Kolkata"
	DefaultRefreshSchedule = "*/15 * * * *"
	DefaultSnapshotPath    = "data/file_entries.json"
	DefaultReportsPort     = "4143"
	DefaultGatewayPort     = "8081"
	RefreshTimeoutSeconds  = 60

	// Display layouts
	DisplayDateFormat = "02/01/2006"
	ISODateFormat     = "2006-01-02"
	TitleDateFormat   = "02 January 2006"

	// Indian government financial year starts in April
	FinancialYearStartMonth = 4
)

// StoreType selects the persistence adapter used to load file entries.
type StoreType string

const (
	StorePostgres StoreType = "postgres"
	StorePgx      StoreType = "pgx"
	StoreFile     StoreType = "file"
)

// StoreConfig describes where the reporting snapshot is loaded from.
type StoreConfig struct {
	Type             StoreType
	ConnectionString string
	SnapshotPath     string
}

// GetStoreConfig returns the store configuration based on environment variables
func GetStoreConfig() StoreConfig {
	cfg := StoreConfig{
		ConnectionString: getConnectionString(),
		SnapshotPath:     getSnapshotPath(),
	}
	switch strings.ToLower(os.Getenv("GW_STORE_TYPE")) {
	case "file", "mock", "json":
		cfg.Type = StoreFile
	case "pgx", "pool":
		cfg.Type = StorePgx
	default:
		cfg.Type = StorePostgres
	}
	return cfg
}

func getSnapshotPath() string {
	path := os.Getenv("GW_SNAPSHOT_PATH")
	if path == "" {
		return DefaultSnapshotPath
	}
	return path
}

// getConnectionString builds a libpq style connection string from DB_* variables,
// unless DB_CONN_STRING is set explicitly.
func getConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STRING"); connStr != "" {
		return connStr
	}
	parts := []string{}
	add := func(key, env string) {
		if v := os.Getenv(env); v != "" {
			parts = append(parts, key+"="+v)
		}
	}
	add("user", "DB_USER")
	add("password", "DB_PASSWORD")
	add("host", "DB_HOST")
	add("port", "DB_PORT")
	add("dbname", "DB_NAME")
	parts = append(parts, "sslmode=disable")
	return strings.Join(parts, " ")
}
