package config

import "time"

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// ScreeningConfig holds the tunables of the scoring engine.
type ScreeningConfig struct {
	MaxAllowed          int64
	MaxManualProcessing int64
	CorrelationWindow   time.Duration
	OperationTimeout    time.Duration
	BlocklistCacheTTL   time.Duration
}

// DatabaseConfig holds postgres connection and pool settings.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisSettings holds the blocklist cache connection.
type RedisSettings struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// ServerConfig is everything cmd/server needs to boot.
type ServerConfig struct {
	Port          string
	LogLevel      string
	StorageDriver string
	Screening     ScreeningConfig
	Database      DatabaseConfig
	Redis         RedisSettings
}

// LoadScreening reads the screening tunables from the environment.
func LoadScreening() ScreeningConfig {
	return ScreeningConfig{
		MaxAllowed:          GetInt64Env("MAX_ALLOWED", 200),
		MaxManualProcessing: GetInt64Env("MAX_MANUAL_PROCESSING", 1500),
		CorrelationWindow:   GetDurationEnv("CORRELATION_WINDOW", time.Hour),
		OperationTimeout:    GetDurationEnv("REQUEST_TIMEOUT", 5*time.Second),
		BlocklistCacheTTL:   GetDurationEnv("BLOCKLIST_CACHE_TTL", 5*time.Minute),
	}
}

// LoadDatabase reads the postgres settings from the environment.
func LoadDatabase() DatabaseConfig {
	return DatabaseConfig{
		Host:            GetEnv("DB_HOST", "localhost"),
		Port:            GetEnv("DB_PORT", "5432"),
		User:            GetEnv("DB_USER", "postgres"),
		Password:        GetEnv("DB_PASSWORD", "postgres"),
		Name:            GetEnv("DB_NAME", "antifraud"),
		SSLMode:         GetEnv("DB_SSLMODE", "disable"),
		MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
		ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
	}
}

// LoadRedis reads the redis settings from the environment.
func LoadRedis() RedisSettings {
	return RedisSettings{
		Enabled:  GetBoolEnv("REDIS_ENABLED", true),
		Host:     GetEnv("REDIS_HOST", "localhost"),
		Port:     GetEnv("REDIS_PORT", "6379"),
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       GetIntEnv("REDIS_DB", 0),
	}
}

// LoadServer assembles the full server configuration.
func LoadServer() ServerConfig {
	return ServerConfig{
		Port:          GetEnv("PORT", "3000"),
		LogLevel:      GetEnv("LOG_LEVEL", "info"),
		StorageDriver: GetEnv("STORAGE_DRIVER", StoragePostgres),
		Screening:     LoadScreening(),
		Database:      LoadDatabase(),
		Redis:         LoadRedis(),
	}
}
