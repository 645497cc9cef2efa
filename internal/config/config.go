package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every externally provided setting, loaded once at startup and
// injected into constructors. No package-level state.
type Config struct {
	ServerPort string

	PostgresDSN string

	RedisAddr     string
	RedisPassword string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration

	AzureStorageConnectionString string
	BlobContainerName            string
	// BlobPublicBaseURL is the CDN/account endpoint public URLs are composed from.
	BlobPublicBaseURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	// ResetURLBase is the frontend page the reset token is appended to.
	ResetURLBase string
}

// Load reads the .env file (when present) and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}
	return &Config{
		ServerPort: getEnvDefault("SERVER_PORT", "8080"),

		PostgresDSN: getEnv("POSTGRES_DSN"),

		RedisAddr:     getEnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvDefault("REDIS_PASSWORD", ""),

		JWTSecretKey:    getEnv("JWT_SECRET_KEY"),
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		ResetTokenTTL:   time.Hour,

		AzureStorageConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING"),
		BlobContainerName:            getEnvDefault("BLOB_CONTAINER_NAME", "vehicle-images"),
		BlobPublicBaseURL:            getEnv("BLOB_PUBLIC_BASE_URL"),

		SMTPHost:     getEnv("SMTP_HOST"),
		SMTPPort:     587,
		SMTPUser:     getEnv("SMTP_USER"),
		SMTPPassword: getEnv("SMTP_PASSWORD"),
		MailFrom:     getEnvDefault("MAIL_FROM", "no-reply@pontocarro.com.br"),
		ResetURLBase: getEnv("RESET_URL_BASE"),
	}
}

// getEnv retrieves the value of the environment variable named by the key.
func getEnv(key string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	panic("critical config missing: " + key)
}

func getEnvDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
