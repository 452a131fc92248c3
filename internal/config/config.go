package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Database DatabaseConfig
	Session  SessionConfig
	Table    TableConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers []string
	Topics  TopicConfig
	Enabled bool
}

type TopicConfig struct {
	OrderPlaced    string
	OrderResolved  string
	OrderPaid      string
	OrderCancelled string
}

type DatabaseConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

type SessionConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type TableConfig struct {
	// LockTTL bounds how long a claimed table stays locked if the client
	// never releases it (crash recovery).
	LockTTL time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8088"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled: getEnvBool("KAFKA_ENABLED", true),
			Topics: TopicConfig{
				OrderPlaced:    getEnv("KAFKA_TOPIC_PLACED", "order-placed"),
				OrderResolved:  getEnv("KAFKA_TOPIC_RESOLVED", "order-resolved"),
				OrderPaid:      getEnv("KAFKA_TOPIC_PAID", "order-paid"),
				OrderCancelled: getEnv("KAFKA_TOPIC_CANCELLED", "order-cancelled"),
			},
		},
		Database: DatabaseConfig{
			DSN:          getEnv("DB_DSN", "file:tableside.db?cache=shared"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		},
		Session: SessionConfig{
			JWTSecret: getEnv("SESSION_JWT_SECRET", "dev-only-secret"),
			TokenTTL:  time.Duration(getEnvInt("SESSION_TOKEN_TTL_HOURS", 24)) * time.Hour,
		},
		Table: TableConfig{
			LockTTL: time.Duration(getEnvInt("TABLE_LOCK_TTL_MINUTES", 120)) * time.Minute,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
