package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
)

// Store driver names accepted in STORE_DRIVER.
const (
	DriverFile  = "file"
	DriverMySQL = "mysql"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The database fields are only consulted when the
// store driver is "mysql"; the file driver needs nothing but a path.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	StoreDriver string // record store backend: "file" or "mysql"
	DataFile    string // JSON data file path for the file driver
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Database variables
// become required only when STORE_DRIVER selects the mysql backend.
func Load() Config {
	cfg := Config{
		Env:         getenv("APP_ENV", "dev"),
		Port:        must("APP_PORT"),
		StoreDriver: getenv("STORE_DRIVER", DriverFile),
		DataFile:    getenv("DATA_FILE", "data.json"),
	}
	switch cfg.StoreDriver {
	case DriverFile:
		// nothing more to load
	case DriverMySQL:
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	default:
		log.Fatalf("unknown STORE_DRIVER: %q (want %q or %q)", cfg.StoreDriver, DriverFile, DriverMySQL)
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
