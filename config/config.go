package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	ServerPort      string
	DatabasePath    string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Timezone        *time.Location
	ResetTime       string // "HH:MM" wall-clock time for the daily maintenance job
}

func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/miracleplan.db"
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	accessTTL, err := parseDuration("ACCESS_TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, err
	}

	refreshTTL, err := parseDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Seoul"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	resetTime := os.Getenv("RESET_TIME")
	if resetTime == "" {
		resetTime = "00:00"
	}
	if _, err := time.Parse("15:04", resetTime); err != nil {
		return nil, fmt.Errorf("invalid RESET_TIME: %w", err)
	}

	return &Config{
		ServerPort:      port,
		DatabasePath:    dbPath,
		JWTSecret:       secret,
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
		Timezone:        tz,
		ResetTime:       resetTime,
	}, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
