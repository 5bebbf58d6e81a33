package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Settings are the process settings read from the environment
type Settings struct {
	Port            string
	DatabaseURL     string
	DataPath        string
	YouTubeAPIKey   string
	JWTSecret       string
	APIMasterSecret string
	AdminUsername   string
	AdminPassword   string
	LogLevel        string
	LogFormat       string
	GinMode         string
}

// LoadDotEnv loads the first .env found in the working directory or its parents
func LoadDotEnv() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// LoadSettings reads settings from the environment, applying defaults
func LoadSettings() Settings {
	return Settings{
		Port:            getenv("PORT", "8000"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DataPath:        getenv("DATA_PATH", "workout_scheduler.db"),
		YouTubeAPIKey:   os.Getenv("YOUTUBE_API_KEY"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		APIMasterSecret: os.Getenv("API_MASTER_SECRET"),
		AdminUsername:   getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getenv("ADMIN_PASSWORD", "admin123"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "json"),
		GinMode:         os.Getenv("GIN_MODE"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
