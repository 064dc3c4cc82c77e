package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Server holds the API service configuration, read from the
// environment with .env support.
type Server struct {
	Port      string
	DBFile    string
	JWTSecret string
	JWTExpiry time.Duration
	// AuditRetention drops audit log entries older than this on
	// startup. Zero keeps entries forever.
	AuditRetention time.Duration
}

func LoadServer() *Server {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	hours, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	retentionDays, err := strconv.Atoi(getEnv("AUDIT_RETENTION_DAYS", "0"))
	if err != nil || retentionDays < 0 {
		retentionDays = 0
	}

	return &Server{
		Port:           getEnv("SERVER_PORT", "8080"),
		DBFile:         getEnv("DB_FILE", "patient_manager.db"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiry:      time.Duration(hours) * time.Hour,
		AuditRetention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
