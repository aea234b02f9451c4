package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SoarAway/donki-wonki/models"
)

// Config is built once at startup and handed to whoever needs it.
type Config struct {
	Port           string
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	LogLevel       string
	LogFile        string
	SNSPlatformARN string
	AWSRegion      string
	Location       *time.Location
}

// Load reads .env (when present) and the process environment. All
// clock and weekday math runs in the single configured timezone.
func Load() (*Config, error) {
	_ = godotenv.Load()

	tzName := getEnv("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         getEnv("DB_NAME", "donkiwonki"),
		DBPort:         getEnv("DB_PORT", "5432"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        os.Getenv("LOG_FILE"),
		SNSPlatformARN: os.Getenv("SNS_FCM_ARN"),
		AWSRegion:      getEnv("AWS_REGION", "ap-southeast-1"),
		Location:       loc,
	}, nil
}

// OpenDB connects to Postgres and migrates the schema.
func OpenDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Route{},
		&models.Schedule{},
		&models.Alert{},
		&models.Report{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
