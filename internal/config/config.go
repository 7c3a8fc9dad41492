package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// External finance backend
	APIBaseURL string

	// Local durable storage (session + preferences)
	LocalStorePath string

	// Exchange rate feed
	RateAPIURL   string
	RateFallback float64
	AltCurrency  string

	// AMQP activity feed (optional, disabled when URL is empty)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Activity worker
	AuditLogPath string
}

func Load() *Config {
	return &Config{
		Port:       getEnv("PORT", "8080"),
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:5000/api"),

		LocalStorePath: getEnv("LOCALSTORE_PATH", "./data/fintrack.db"),

		RateAPIURL:   getEnv("RATE_API_URL", ""),
		RateFallback: getEnvFloat("RATE_FALLBACK", 83.0),
		AltCurrency:  getEnv("ALT_CURRENCY", "INR"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "activity"),

		AuditLogPath: getEnv("AUDIT_LOG_PATH", "./data/activity.csv"),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.APIBaseURL == "" {
		problems = append(problems, "API base URL cannot be empty")
	} else if parsed, err := url.Parse(c.APIBaseURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		problems = append(problems, fmt.Sprintf("invalid API base URL '%s': must be http or https", c.APIBaseURL))
	}

	if c.LocalStorePath == "" {
		problems = append(problems, "local store path cannot be empty")
	} else {
		dir := filepath.Dir(c.LocalStorePath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create local store directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.RateFallback <= 0 {
		problems = append(problems, fmt.Sprintf("invalid fallback rate %v: must be positive", c.RateFallback))
	}
	if len(c.AltCurrency) != 3 {
		problems = append(problems, fmt.Sprintf("invalid alternate currency '%s': must be a 3-letter code", c.AltCurrency))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
