package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	MySQL       MySQLConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Minio       MinioConfig
	FeeSchedule FeeScheduleConfig
	OrphanSweep OrphanSweepConfig
	Migrate     bool
	HTTPAddr    string
}

// MySQLConfig holds MySQL configuration
type MySQLConfig struct {
	DSN string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
	Issuer        string
}

// MinioConfig holds object storage configuration
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// Presigned download URL lifetime in hours
	URLExpireHours int
}

// FeeScheduleConfig holds fee schedule provider configuration
type FeeScheduleConfig struct {
	// Redis mirror TTL in seconds, 0 disables the mirror
	MirrorTTLSec int
}

// OrphanSweepConfig holds orphaned upload sweeper configuration
type OrphanSweepConfig struct {
	Enabled      bool
	IntervalSec  int
	GraceMinutes int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getEnv("MYSQL_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			ExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 1440),
			Issuer:        getEnv("JWT_ISSUER", "certhub"),
		},
		Minio: MinioConfig{
			Endpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:      getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:      getEnv("MINIO_SECRET_KEY", ""),
			Bucket:         getEnv("MINIO_BUCKET", "certhub-renewals"),
			UseSSL:         getEnv("MINIO_USE_SSL", "0") == "1",
			URLExpireHours: getEnvInt("MINIO_URL_EXPIRE_HOURS", 24),
		},
		FeeSchedule: FeeScheduleConfig{
			MirrorTTLSec: getEnvInt("FEE_SCHEDULE_MIRROR_TTL_SEC", 86400),
		},
		OrphanSweep: OrphanSweepConfig{
			Enabled:      getEnv("ORPHAN_SWEEP_ENABLED", "1") == "1",
			IntervalSec:  getEnvInt("ORPHAN_SWEEP_INTERVAL_SEC", 3600),
			GraceMinutes: getEnvInt("ORPHAN_SWEEP_GRACE_MINUTES", 120),
		},
		Migrate:  getEnv("MIGRATE", "0") == "1",
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// Validate required fields
	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// LoadFromINI loads configuration from INI file with environment variable override
func LoadFromINI(iniPath string) (*Config, error) {
	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	// Helper function: get value with priority: ENV > INI > default
	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			return value
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := os.Getenv(envKey); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		if cfgFile.Section(iniSection).HasKey(iniKey) {
			if value, err := cfgFile.Section(iniSection).Key(iniKey).Int(); err == nil {
				return value
			}
		}
		return defaultValue
	}

	getValueBool := func(envKey, iniSection, iniKey string, defaultValue bool) bool {
		if value := os.Getenv(envKey); value != "" {
			return value == "1" || value == "true"
		}
		if value, err := cfgFile.Section(iniSection).Key(iniKey).Bool(); err == nil {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getValue("MYSQL_DSN", "mysql", "dsn", ""),
		},
		Redis: RedisConfig{
			Addr:     getValue("REDIS_ADDR", "redis", "addr", "localhost:6379"),
			Password: getValue("REDIS_PASS", "redis", "pass", ""),
			DB:       getValueInt("REDIS_DB", "redis", "db", 0),
		},
		JWT: JWTConfig{
			Secret:        getValue("JWT_SECRET", "jwt", "secret", ""),
			ExpireMinutes: getValueInt("JWT_EXPIRE_MINUTES", "jwt", "expire_minutes", 1440),
			Issuer:        getValue("JWT_ISSUER", "jwt", "issuer", "certhub"),
		},
		Minio: MinioConfig{
			Endpoint:       getValue("MINIO_ENDPOINT", "minio", "endpoint", "localhost:9000"),
			AccessKey:      getValue("MINIO_ACCESS_KEY", "minio", "access_key", ""),
			SecretKey:      getValue("MINIO_SECRET_KEY", "minio", "secret_key", ""),
			Bucket:         getValue("MINIO_BUCKET", "minio", "bucket", "certhub-renewals"),
			UseSSL:         getValueBool("MINIO_USE_SSL", "minio", "use_ssl", false),
			URLExpireHours: getValueInt("MINIO_URL_EXPIRE_HOURS", "minio", "url_expire_hours", 24),
		},
		FeeSchedule: FeeScheduleConfig{
			MirrorTTLSec: getValueInt("FEE_SCHEDULE_MIRROR_TTL_SEC", "fee_schedule", "mirror_ttl_sec", 86400),
		},
		OrphanSweep: OrphanSweepConfig{
			Enabled:      getValueBool("ORPHAN_SWEEP_ENABLED", "orphan_sweep", "enabled", true),
			IntervalSec:  getValueInt("ORPHAN_SWEEP_INTERVAL_SEC", "orphan_sweep", "interval_sec", 3600),
			GraceMinutes: getValueInt("ORPHAN_SWEEP_GRACE_MINUTES", "orphan_sweep", "grace_minutes", 120),
		},
		Migrate:  getValueBool("MIGRATE", "app", "migrate", false),
		HTTPAddr: getValue("HTTP_ADDR", "http", "addr", ":8080"),
	}

	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
