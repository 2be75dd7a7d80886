package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// costs and thresholds.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	// Core database holding users and refresh tokens.
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	// Legacy reporting database queried for the daily visit sheet.  It is a
	// separate relational source operated by another team; this service only
	// runs read-only report queries against it.
	LegacyDBUser string // legacy database username
	LegacyDBPass string // legacy database password (optional)
	LegacyDBHost string // legacy database host address
	LegacyDBPort string // legacy database port number
	LegacyDBName string // legacy database name

	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	LockoutThreshold int // failed attempts per window before a temporary lock
	LockoutMinutes   int // lockout window and lock duration, in minutes
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Lockout settings
// fall back to the documented defaults (5 attempts / 15 minutes) when unset.
func Load() Config {
	return Config{
		Env:  must("APP_ENV"),  // environment (dev/test/prod)
		Port: must("APP_PORT"), // port to bind the HTTP server

		DBUser: must("DB_USER"),      // core database user
		DBPass: os.Getenv("DB_PASS"), // core database password (empty allowed)
		DBHost: must("DB_HOST"),      // core database host
		DBPort: must("DB_PORT"),      // core database port
		DBName: must("DB_NAME"),      // core database name

		LegacyDBUser: must("LEGACY_DB_USER"),      // legacy database user
		LegacyDBPass: os.Getenv("LEGACY_DB_PASS"), // legacy database password (empty allowed)
		LegacyDBHost: must("LEGACY_DB_HOST"),      // legacy database host
		LegacyDBPort: must("LEGACY_DB_PORT"),      // legacy database port
		LegacyDBName: must("LEGACY_DB_NAME"),      // legacy database name

		JWTSecret:      must("JWT_SECRET"),                // secret used for signing JWTs
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
		BcryptCost:     mustInt("BCRYPT_COST"),            // bcrypt cost factor

		LockoutThreshold: envInt("LOGIN_LOCKOUT_THRESHOLD", 5), // failed attempts before lock
		LockoutMinutes:   envInt("LOGIN_LOCKOUT_MINUTES", 15),  // attempt window and lock duration
	}
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
