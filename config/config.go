package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every setting the app needs. It is built once in main and
// handed to constructors; nothing reads the environment after Load returns.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigin  string

	// Base URL this API is reachable at (used in verification links).
	PublicBaseURL string
	// Base URL of the web client (used in password-reset links and redirects).
	FrontendBaseURL string

	TMDB   TMDBConfig
	SMTP   SMTPConfig
	Google GoogleConfig
}

type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      int // seconds
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

type GoogleConfig struct {
	ClientID         string
	ClientSecret     string
	RedirectURL      string
	FrontendRedirect string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	return Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: mustEnv("DB_URL"),
		JWTSecret:   mustEnv("JWT_SECRET"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:5173"),

		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		FrontendBaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:5173"),

		TMDB: TMDBConfig{
			APIKey:       mustEnv("TMDB_API_KEY"),
			BaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),
			Timeout:      getEnvInt("TMDB_TIMEOUT_SECONDS", 10),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			From:     getEnv("SMTP_FROM", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
		Google: GoogleConfig{
			ClientID:         getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret:     getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:      getEnv("GOOGLE_REDIRECT_URL", ""),
			FrontendRedirect: getEnv("GOOGLE_FRONTEND_REDIRECT", ""),
		},
	}
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
