package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreBackendMemory   = "memory"
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
)

type GeneralConfig struct {
	Env      string
	LogLevel string
	Port     int

	// SeedDemoData fills an empty memory store with demo collections
	SeedDemoData bool
}

// DatabaseConfig holds PostgreSQL connection settings. Lifetimes are in
// minutes.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	MigrationsPath  string
}

// DSN returns the lib/pq connection string for dbName
func (c DatabaseConfig) DSN(dbName string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, dbName, c.SSLMode)
}

// URL returns the postgres:// form golang-migrate expects
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// StoreConfig selects where the collections live
type StoreConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// BrokerConfig configures domain event publishing. An empty URL disables it.
type BrokerConfig struct {
	URL   string
	Queue string
}

// AppConfig groups every configuration section
type AppConfig struct {
	GeneralConfig  GeneralConfig
	DatabaseConfig DatabaseConfig
	StoreConfig    StoreConfig
	BrokerConfig   BrokerConfig
}

// LoadConfigs loads the configurations from the environment variables
func LoadConfigs() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env files: %v", err)
	}

	loadGeneralConfigs()
	loadDatabaseConfigs()
	loadStoreConfigs()
	loadBrokerConfigs()
}

var AppConfigInstance AppConfig

// loadGeneralConfigs loads the general configurations from the environment variables
func loadGeneralConfigs() {
	AppConfigInstance.GeneralConfig.Env = getEnv("APP_ENV", "dev")
	AppConfigInstance.GeneralConfig.LogLevel = getEnv("LOG_LEVEL", "info")
	AppConfigInstance.GeneralConfig.Port = getEnvInt("PORT", 8080)
	AppConfigInstance.GeneralConfig.SeedDemoData = getEnvBool("SEED_DEMO_DATA", false)
}

func loadDatabaseConfigs() {
	AppConfigInstance.DatabaseConfig = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "crm"),
		Password:        getEnv("DB_PASSWORD", "crm"),
		DBName:          getEnv("DB_NAME", "crmbeacon"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 5),
		ConnMaxIdleTime: getEnvInt("DB_CONN_MAX_IDLE_TIME", 1),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
	}
}

func loadStoreConfigs() {
	AppConfigInstance.StoreConfig = StoreConfig{
		Backend:       strings.ToLower(getEnv("STORE_BACKEND", StoreBackendMemory)),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
	}
}

func loadBrokerConfigs() {
	AppConfigInstance.BrokerConfig = BrokerConfig{
		URL:   getEnv("AMQP_URL", ""),
		Queue: getEnv("AMQP_QUEUE", "crm.events"),
	}
}

// Validate reports configuration combinations the server cannot run with
func (c AppConfig) Validate() error {
	switch c.StoreConfig.Backend {
	case StoreBackendMemory, StoreBackendRedis, StoreBackendPostgres:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreConfig.Backend)
	}
	if c.GeneralConfig.Port <= 0 || c.GeneralConfig.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.GeneralConfig.Port)
	}
	return nil
}

// getEnv returns the environment variable value if it exists, otherwise returns the fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns the environment variable value as int if it exists, otherwise returns the fallback value
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
