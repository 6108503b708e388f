package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the database settings used by integration tests.
//
// Variables are read with the TEST_ prefix. When any of them is missing an empty
// Config is returned and the integration tests skip themselves.
func LoadTestConfig() (*Config, error) {
	_ = godotenv.Load("./../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	values := map[string]string{}
	for _, key := range []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME"} {
		value := os.Getenv(key)
		if value == "" {
			return cfg, nil
		}
		values[key] = value
	}

	port, err := strconv.Atoi(values["TEST_DB_PORT"])
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}

	cfg.Database = DatabaseConfig{
		Host:     values["TEST_DB_HOST"],
		Port:     port,
		User:     values["TEST_DB_USER"],
		Password: values["TEST_DB_PASSWORD"],
		DBName:   values["TEST_DB_NAME"],
	}
	return cfg, nil
}

// IsConfigured reports whether a database has been configured
func (c *Config) IsConfigured() bool {
	return c.Database.Host != ""
}
