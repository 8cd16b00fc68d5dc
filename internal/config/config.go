package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the API server settings, loaded from environment.
type Config struct {
	ServerPort    string
	DatabaseURL   string
	JWTSecret     string
	TokenExpiry   time.Duration
	KafkaBrokers  string
	KafkaTopic    string
	ChangesTopic  string
	FeedGroup     string
	HouseCapacity int
	FeedSize      int
	SweepInterval time.Duration
}

// DBConfig holds the Postgres connection settings for the notifier,
// which runs on its own pool.
type DBConfig struct {
	URL         string
	MaxOpenConn int
	ConnMaxIdle time.Duration
}

// NotifierConfig holds the notifier worker settings.
type NotifierConfig struct {
	KafkaBrokers  string
	EventsTopic   string
	ChangesTopic  string
	ConsumerGroup string
	BatchWorkers  int
	DB            DBConfig
}

// Load reads the API server configuration from environment.
func Load() Config {
	expiryHours := getInt("AUTH_EXPIRY_HOURS", 24)
	capacity := getInt("HOUSE_CAPACITY", 35)
	feedSize := getInt("FEED_SIZE", 50)
	sweepMinutes := getInt("SWEEP_INTERVAL_MINUTES", 60)

	return Config{
		ServerPort:    getString("SERVER_PORT", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("SECRET_KEY"),
		TokenExpiry:   time.Duration(expiryHours) * time.Hour,
		KafkaBrokers:  os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:    getString("KAFKA_NOTIF_TOPIC", "hms.notifications"),
		ChangesTopic:  getString("KAFKA_CHANGES_TOPIC", "hms.notification-changes"),
		FeedGroup:     getString("KAFKA_FEED_GROUP", "hms-feed"),
		HouseCapacity: capacity,
		FeedSize:      feedSize,
		SweepInterval: time.Duration(sweepMinutes) * time.Minute,
	}
}

// LoadNotifier reads the notifier worker configuration from environment.
func LoadNotifier() NotifierConfig {
	return NotifierConfig{
		KafkaBrokers:  os.Getenv("KAFKA_BROKERS"),
		EventsTopic:   getString("KAFKA_NOTIF_TOPIC", "hms.notifications"),
		ChangesTopic:  getString("KAFKA_CHANGES_TOPIC", "hms.notification-changes"),
		ConsumerGroup: getString("KAFKA_NOTIFIER_GROUP", "hms-notifier"),
		BatchWorkers:  getInt("NOTIF_BATCH_WORKERS", 5),
		DB:            LoadDBConfig(),
	}
}

// LoadDBConfig loads the notifier database configuration from environment.
func LoadDBConfig() DBConfig {
	maxOpen := getInt("NOTIF_DB_MAX_OPEN", 10)
	idle, _ := time.ParseDuration(os.Getenv("NOTIF_DB_CONN_IDLE"))
	return DBConfig{
		URL:         getString("NOTIF_DB_URL", os.Getenv("DATABASE_URL")),
		MaxOpenConn: maxOpen,
		ConnMaxIdle: idle,
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
