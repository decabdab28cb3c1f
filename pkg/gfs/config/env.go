package config

import "os"

// Server holds runtime configuration for the long-running commands,
// loaded from environment variables.
type Server struct {
	DBPath   string
	HTTPAddr string
}

// LoadServer reads server configuration from the environment.
func LoadServer() Server {
	return Server{
		DBPath:   getEnv("GFS_DB_PATH", "gfs_catalog.db"),
		HTTPAddr: getEnv("GFS_HTTP_ADDR", ":8080"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
