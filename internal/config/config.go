package config // package config loads client configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration-valued variables
)

// Config holds all runtime configuration for the guest client. Each
// field corresponds to an environment variable. BaseURL is the only
// required value: every relative API path is resolved against it.
type Config struct {
	Env     string // application environment (e.g. "dev", "prod")
	BaseURL string // base URL of the hotel API (e.g. http://localhost:8080)
	AMQPURL string // RabbitMQ URL for order-status events (optional)
}

// Load reads configuration values from environment variables and
// returns a Config. BASE_URL is enforced by must() and a missing value
// causes the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:     getenv("APP_ENV", "dev"),  // environment (dev/test/prod)
		BaseURL: must("BASE_URL"),          // API base, prepended to relative paths
		AMQPURL: os.Getenv("RABBITMQ_URL"), // empty disables the event consumer
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the client logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// Helper functions shared by cache.go and storage.go.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
