package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int
	MigrationsPath string
}

type KafkaConfig struct {
	Brokers       []string
	Topic         string
	TLS           bool
	SASLEnabled   bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

type OutboxConfig struct {
	Schedule  string
	BatchSize int
}

type AuthConfig struct {
	JWTSecret         string
	JWTPrivateKeyFile string
	JWTIssuer         string
	JWTTTL            time.Duration
}

type SeedConfig struct {
	Enabled          bool
	AdminPassword    string
	CustomerPassword string
}

type GRPCConfig struct {
	TLSCertFile string
	TLSKeyFile  string
	Reflection  bool
}

type Config struct {
	GRPCPort     int
	HTTPPort     int
	DB           DatabaseConfig
	Kafka        KafkaConfig
	Outbox       OutboxConfig
	Auth         AuthConfig
	Seed         SeedConfig
	GRPC         GRPCConfig
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
	ServiceName  string
}

// Validate reports every missing or inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required"))
	}
	if c.Auth.JWTSecret == "" && c.Auth.JWTPrivateKeyFile == "" {
		errs = append(errs, errors.New("JWT_SECRET or JWT_PRIVATE_KEY_FILE is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required"))
	}
	if c.Seed.Enabled && (c.Seed.AdminPassword == "" || c.Seed.CustomerPassword == "") {
		errs = append(errs, errors.New("SEED_ADMIN_PASSWORD and SEED_CUSTOMER_PASSWORD are required when SEED_ENABLED is true"))
	}
	if (c.GRPC.TLSCertFile == "") != (c.GRPC.TLSKeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	if c.Outbox.BatchSize <= 0 {
		errs = append(errs, errors.New("OUTBOX_BATCH_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

func Load() Config {
	return Config{
		GRPCPort: getEnvInt("GRPC_PORT", 9088),
		HTTPPort: getEnvInt("HTTP_PORT", 8088),
		DB: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "credit"),
			Password:       getEnv("DB_PASSWORD", ""),
			Name:           getEnv("DB_NAME", "credit"),
			SSLMode:        getEnv("DB_SSLMODE", "require"),
			MaxConns:       getEnvInt("DB_MAX_CONNS", 10),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "internal/infrastructure/persistence/postgres/migrations"),
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:         getEnv("KAFKA_TOPIC", "credit.loan.events"),
			TLS:           getEnvBool("KAFKA_TLS", false),
			SASLEnabled:   getEnvBool("KAFKA_SASL_ENABLED", false),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		Outbox: OutboxConfig{
			Schedule:  getEnv("OUTBOX_SCHEDULE", "@every 5s"),
			BatchSize: getEnvInt("OUTBOX_BATCH_SIZE", 100),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			JWTPrivateKeyFile: getEnv("JWT_PRIVATE_KEY_FILE", ""),
			JWTIssuer:         getEnv("JWT_ISSUER", "credit-module"),
			JWTTTL:            getEnvDuration("JWT_TTL", time.Hour),
		},
		Seed: SeedConfig{
			Enabled:          getEnvBool("SEED_ENABLED", true),
			AdminPassword:    getEnv("SEED_ADMIN_PASSWORD", ""),
			CustomerPassword: getEnv("SEED_CUSTOMER_PASSWORD", ""),
		},
		GRPC: GRPCConfig{
			TLSCertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
			TLSKeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
			Reflection:  getEnvBool("GRPC_REFLECTION", false),
		},
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  "credit-module",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
