package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	AppEnv string

	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Mongo    MongoConfig

	// PayslipStore selects the payslip document repository: postgres or mongo.
	PayslipStore string

	JWTSecret       string
	CasbinModelPath string

	ConnectRetries int
	// AutoMigrate creates or updates the tables on start.
	AutoMigrate bool
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Broker             string
	GenerationGroupID  string
	AuditGroupID       string
	OutboxPollInterval time.Duration
	// OutboxRetention is how long sent events are kept. 0 keeps them forever.
	OutboxRetention time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env (if present) and the process environment. Environment wins over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("HTTP_READ_TIMEOUT", "5s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "10s")
	v.SetDefault("HTTP_IDLE_TIMEOUT", "60s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("KAFKA_GENERATION_GROUP_ID", "tutorhub-payslip-generation")
	v.SetDefault("KAFKA_AUDIT_GROUP_ID", "tutorhub-payslip-audit")
	v.SetDefault("OUTBOX_POLL_INTERVAL", "3s")
	v.SetDefault("OUTBOX_RETENTION", "168h")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "tutorhub")
	v.SetDefault("PAYSLIP_STORE", StorePostgres)
	v.SetDefault("CASBIN_MODEL_PATH", "internal/rbac/infra/model.conf")
	v.SetDefault("CONNECT_RETRIES", 5)
	v.SetDefault("AUTO_MIGRATE", true)

	cfg := &Config{
		AppEnv: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Port:         v.GetString("PORT"),
			ReadTimeout:  v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("HTTP_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetDuration("HTTP_IDLE_TIMEOUT"),
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("REDIS_ADDR"),
		},
		Kafka: KafkaConfig{
			Broker:             v.GetString("KAFKA_BROKER"),
			GenerationGroupID:  v.GetString("KAFKA_GENERATION_GROUP_ID"),
			AuditGroupID:       v.GetString("KAFKA_AUDIT_GROUP_ID"),
			OutboxPollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
			OutboxRetention:    v.GetDuration("OUTBOX_RETENTION"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		PayslipStore:    strings.ToLower(v.GetString("PAYSLIP_STORE")),
		JWTSecret:       v.GetString("JWT_SECRET"),
		CasbinModelPath: v.GetString("CASBIN_MODEL_PATH"),
		ConnectRetries:  v.GetInt("CONNECT_RETRIES"),
		AutoMigrate:     v.GetBool("AUTO_MIGRATE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.PayslipStore {
	case StorePostgres, StoreMongo:
	default:
		return fmt.Errorf("PAYSLIP_STORE must be %q or %q, got %q", StorePostgres, StoreMongo, c.PayslipStore)
	}
	if c.JWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.ConnectRetries < 1 {
		c.ConnectRetries = 1
	}
	return nil
}
