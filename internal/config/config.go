package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort       int
	DiscoveryPort  int
	DBPath         string
	UploadPath     string
	ReportPath     string
	SuggestBackend string
	ClaudeAPIKey   string
	ClaudeModel    string
	LogLevel       string
	LogFile        string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 5000),
		DiscoveryPort:  getEnvInt("DISCOVERY_PORT", 5001),
		DBPath:         getEnv("DB_PATH", "items.db"),
		UploadPath:     getEnv("UPLOAD_PATH", "uploads"),
		ReportPath:     getEnv("REPORT_PATH", "items.txt"),
		SuggestBackend: getEnv("SUGGEST_BACKEND", "none"),
		ClaudeAPIKey:   getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:    getEnv("CLAUDE_MODEL", "claude-3-haiku-20240307"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}
}

// ListenAddr is the HTTP listen address derived from HTTPPort.
func (c *Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.HTTPPort)
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
