package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultMaxDocumentChars bounds how much extracted document text is
// forwarded to the analysis upstream in a single request.
const DefaultMaxDocumentChars = 100000

type Config struct {
	ServerPort       string
	OpenAIAPIKey     string
	OpenAIModel      string
	DataPath         string
	DatabaseURL      string
	LogLevel         string
	DemoEmail        string
	DemoPassword     string
	MaxDocumentChars int
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		DataPath:         getEnv("DATA_PATH", "portal_state.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DemoEmail:        getEnv("DEMO_EMAIL", "example@gmail.com"),
		DemoPassword:     getEnv("DEMO_PASSWORD", "example123"),
		MaxDocumentChars: getEnvInt("MAX_DOCUMENT_CHARS", DefaultMaxDocumentChars),
	}
}

// ConfigureLogging applies the configured log level to the global logger.
func (c *Config) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid LOG_LEVEL value: %s, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		logrus.Warnf("Invalid %s value: %s, using default %d", key, value, fallback)
		return fallback
	}
	return parsed
}
