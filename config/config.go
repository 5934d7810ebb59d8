package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dgarrido/wedding-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// App is the loaded configuration, set by Load.
var App *Config

// Config is the full environment surface of the server.
type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	JWTSecret   string
	PingMessage string
	Env         string // "dev" | "production"
}

func Load() *Config {
	App = &Config{
		Port:        getEnv("PORT", "8080"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		PingMessage: getEnv("PING_MESSAGE", "pong"),
		Env:         getEnv("ENV", "dev"),
	}
	return App
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitLogger configures the global zerolog logger. Dev gets a console
// writer, everything else stays JSON.
func InitLogger(cfg *Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// ConnectDB opens the PostgreSQL connection and migrates the schema.
func ConnectDB(cfg *Config) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=America/Guatemala",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	DB = db
	log.Info().Msg("connected to PostgreSQL and migrated")
}

// Migrate runs AutoMigrate for every table. Split out so tests can run it
// against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Identity{},
		&models.AccommodationGroup{},
		&models.Invite{},
		&models.Guest{},
		&models.RsvpResponse{},
		&models.TravelDetails{},
		&models.Payment{},
		&models.AdminUser{},
		&models.ExportJob{},
	)
}
