package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	BaseURL string

	JWTKey []byte
	JWTExp time.Duration

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ViewDedupeTTL time.Duration
	ResetTokenTTL time.Duration

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
}

// Load reads .env (when present) and the environment into a Config. The
// result is passed explicitly to constructors; nothing here is package-level
// state.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return &Config{
		APIPort: getEnv("API_PORT", "8080"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		JWTKey: []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp: time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 168)) * time.Hour,

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "inkpress"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ViewDedupeTTL: time.Duration(getEnvAsInt("VIEW_DEDUPE_TTL_SECONDS", 1800)) * time.Second,
		ResetTokenTTL: time.Duration(getEnvAsInt("RESET_TOKEN_TTL_MINUTES", 15)) * time.Minute,

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		MailFrom: getEnv("MAIL_FROM", "no-reply@inkpress.local"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
