package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	// PostgresDSN backs the durable command log; empty keeps the log in
	// memory (local development).
	PostgresDSN string

	// RedisURL enables the facility directory cache; empty disables it.
	RedisURL string

	// KafkaBrokers and KafkaTopic enable the audit event publisher; empty
	// brokers disable it.
	KafkaBrokers []string
	KafkaTopic   string

	// LedgerRPCURL selects the live ledger transport; empty selects the
	// loopback transport.
	LedgerRPCURL  string
	SubmitTimeout time.Duration
}

// FacilityCacheTTL enforces retention for cached facility directory entries.
var FacilityCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays
// lean.
func FromEnv() Server {
	addr := os.Getenv("DOCVAULT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("DOCVAULT_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	submitTimeout := 30 * time.Second
	if raw := os.Getenv("DOCVAULT_SUBMIT_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			submitTimeout = d
		}
	}

	var brokers []string
	if raw := os.Getenv("DOCVAULT_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	topic := os.Getenv("DOCVAULT_KAFKA_TOPIC")
	if topic == "" {
		topic = "docvault.audit"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		PostgresDSN:   os.Getenv("DOCVAULT_POSTGRES_DSN"),
		RedisURL:      os.Getenv("DOCVAULT_REDIS_URL"),
		KafkaBrokers:  brokers,
		KafkaTopic:    topic,
		LedgerRPCURL:  os.Getenv("DOCVAULT_LEDGER_RPC_URL"),
		SubmitTimeout: submitTimeout,
	}
}
