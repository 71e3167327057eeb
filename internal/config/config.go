package config

import (
	"log"
	"os"
)

// DevTokenSecret is the shared fallback used for both principal types when
// no secret is configured. Development only; Load warns when it is in use.
const DevTokenSecret = "retreat-portal-dev-secret"

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type AuthConfig struct {
	AdminSecret    string
	AttendeeSecret string
	// Bootstrap credentials: a superadmin is created at startup when set
	// and no admin with that username exists.
	AdminUsername string
	AdminPassword string
}

func Load() Config {
	cfg := Config{
		Server: ServerConfig{
			Port: getenv("PORT", "8080"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Auth: AuthConfig{
			AdminSecret:    os.Getenv("ADMIN_TOKEN_SECRET"),
			AttendeeSecret: os.Getenv("ATTENDEE_TOKEN_SECRET"),
			AdminUsername:  os.Getenv("ADMIN_USERNAME"),
			AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		},
	}

	if cfg.Auth.AdminSecret == "" {
		log.Println("ADMIN_TOKEN_SECRET not set, using shared dev secret")
		cfg.Auth.AdminSecret = DevTokenSecret
	}
	if cfg.Auth.AttendeeSecret == "" {
		log.Println("ATTENDEE_TOKEN_SECRET not set, using shared dev secret")
		cfg.Auth.AttendeeSecret = DevTokenSecret
	}

	return cfg
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
