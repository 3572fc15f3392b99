package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// devFallbackSecret signs session tokens when SESSION_SECRET is unset
// outside of production. It is deliberately well-known and must never be
// relied on for a real deployment; Load refuses to start in prod without a
// real secret.
const devFallbackSecret = "fallback-secret-for-development-only-12345"

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in the
// application: strings for identifiers and secrets, ints for durations and
// costs.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    SessionSecret  string // secret used to sign session tokens
    SessionTTLDays int    // session token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message. SESSION_SECRET is required
// only in production; elsewhere a fixed development fallback is substituted.
func Load() Config {
    cfg := Config{
        Env:            must("APP_ENV"),      // environment (dev/test/prod)
        Port:           must("APP_PORT"),     // port to bind the HTTP server
        DBUser:         must("DB_USER"),      // database user
        DBPass:         os.Getenv("DB_PASS"), // database password (empty allowed)
        DBHost:         must("DB_HOST"),      // database host
        DBPort:         must("DB_PORT"),      // database port
        DBName:         must("DB_NAME"),      // database name
        SessionSecret:  os.Getenv("SESSION_SECRET"),
        SessionTTLDays: intDefault("SESSION_TTL_DAYS", 7),
        BcryptCost:     intDefault("BCRYPT_COST", 10),
    }
    if cfg.SessionSecret == "" {
        if cfg.Env == "prod" {
            log.Fatal("SESSION_SECRET is required in production")
        }
        cfg.SessionSecret = devFallbackSecret
    }
    return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// intDefault reads an integer environment variable, falling back to def when
// the variable is unset. A present but malformed value is fatal.
func intDefault(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
