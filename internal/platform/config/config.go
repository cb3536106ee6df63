package config

import (
	"os"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
}

// SecurityConfig holds the cryptographic material and issuance policy.
type SecurityConfig struct {
	Issuer            string
	MasterSecret      string
	ReceiptSigningKey string
	DefaultLevel      string
}

// RedisConfig holds connection settings for the fraud history store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds the audit store connection string.
type PostgresConfig struct {
	DSN string
}

// KafkaConfig holds the audit sink settings. Empty Brokers disables the sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Config is the full application configuration.
type Config struct {
	Server   Server
	Security SecurityConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("CERTSEAL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	issuer := os.Getenv("CERTSEAL_ISSUER")
	if issuer == "" {
		issuer = "Sistema de Certificação Farmacêutica"
	}

	masterSecret := os.Getenv("CERTSEAL_MASTER_SECRET")
	if masterSecret == "" {
		// Development default - must be overridden in production
		masterSecret = "dev-master-secret-change-in-production"
	}

	receiptKey := os.Getenv("CERTSEAL_RECEIPT_SIGNING_KEY")
	if receiptKey == "" {
		receiptKey = masterSecret
	}

	level := os.Getenv("CERTSEAL_DEFAULT_LEVEL")
	if level == "" {
		level = "enhanced"
	}

	var brokers []string
	if raw := os.Getenv("CERTSEAL_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Config{
		Server: Server{Addr: addr},
		Security: SecurityConfig{
			Issuer:            issuer,
			MasterSecret:      masterSecret,
			ReceiptSigningKey: receiptKey,
			DefaultLevel:      level,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("CERTSEAL_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("CERTSEAL_POSTGRES_DSN"),
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   os.Getenv("CERTSEAL_KAFKA_TOPIC"),
		},
	}
}
