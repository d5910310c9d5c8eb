package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Migrate  bool
	Verbose  bool
}

// Enabled is false when no host is configured, results are then not recorded
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		p.User, p.Password, p.Host, p.Port, p.Database)
}

type Config struct {
	Port               string
	Prod               bool
	SessionKey         string
	JWTSecret          string
	RequirePlayerToken bool

	RedisURL    string
	RedisDB     int
	SnapshotTTL time.Duration

	Postgres PostgresConfig

	RoomTTL          time.Duration
	LobbyTTL         time.Duration
	AutoPlayAfter    time.Duration
	SweepInterval    time.Duration
	SubscriberBuffer int
	HandSize         int
	MaxRounds        int
}

// Load reads the .env file when present and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] No .env file found, using environment only")
	}

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		SessionKey: getEnv("KEY", "bullpen-session-secret"),
		JWTSecret:  getEnv("JWT_SECRET", "bullpen-jwt-secret"),
		RedisURL:   getEnv("REDIS_URL", ""),
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", ""),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DATABASE", "bullpen"),
		},
	}

	var err error
	if cfg.Prod, err = getBool("PROD", false); err != nil {
		return nil, err
	}
	if cfg.RequirePlayerToken, err = getBool("REQUIRE_PLAYER_TOKEN", true); err != nil {
		return nil, err
	}
	if cfg.Postgres.Migrate, err = getBool("MIGRATE_POSTGRES", false); err != nil {
		return nil, err
	}
	if cfg.Postgres.Verbose, err = getBool("VERBOSE_POSTGRES", false); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SubscriberBuffer, err = getInt("SUBSCRIBER_BUFFER", 32); err != nil {
		return nil, err
	}
	if cfg.HandSize, err = getInt("HAND_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.MaxRounds, err = getInt("MAX_ROUNDS", 10); err != nil {
		return nil, err
	}
	if cfg.SnapshotTTL, err = getDuration("SNAPSHOT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RoomTTL, err = getDuration("ROOM_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.LobbyTTL, err = getDuration("LOBBY_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AutoPlayAfter, err = getDuration("AUTOPLAY_AFTER", time.Minute); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", 15*time.Second); err != nil {
		return nil, err
	}

	if cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", cfg.SweepInterval)
	}
	if cfg.SubscriberBuffer <= 0 {
		return nil, fmt.Errorf("SUBSCRIBER_BUFFER must be positive, got %d", cfg.SubscriberBuffer)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %v", key, value, err)
	}
	return b, nil
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %v", key, value, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %v", key, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, value)
	}
	return d, nil
}
