package main

import "os"

// Environment variables that provide flag defaults.
const (
	envConfigPath = "ROUTEREGISTRY_CONFIG_PATH"
	envLogLevel   = "ROUTEREGISTRY_LOG_LEVEL"
	envLogFormat  = "ROUTEREGISTRY_LOG_FORMAT"
)

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
