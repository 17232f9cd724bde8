package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppPort string

	DBDriver string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	PostgresHost    string
	PostgresPort    string
	PostgresDB      string
	PostgresUser    string
	PostgresPass    string
	PostgresSSLMode string

	SQLitePath string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	LogLevel  string
	LogFormat string
	LogOutput string

	// JWTSecret enables bearer-token identity; empty means role/userId come from the request.
	JWTSecret string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	PhotoLocalDir string
	PhotoMaxBytes int64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DB_DRIVER", DriverMySQL)

	v.SetDefault("MYSQL_HOST", "mysql")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("MYSQL_DB", "fieldops")
	v.SetDefault("MYSQL_USER", "fieldops")
	v.SetDefault("MYSQL_PASS", "fieldops")

	v.SetDefault("POSTGRES_HOST", "postgres")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_DB", "fieldops")
	v.SetDefault("POSTGRES_USER", "fieldops")
	v.SetDefault("POSTGRES_PASS", "fieldops")
	v.SetDefault("POSTGRES_SSLMODE", "disable")

	v.SetDefault("SQLITE_PATH", "data/fieldops.db")

	v.SetDefault("REDIS_ADDR", "redis:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDEMPOTENCY_TTL_SECONDS", 300)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT", "stdout")

	v.SetDefault("MINIO_BUCKET", "evidence-photos")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("PHOTO_LOCAL_DIR", "data/photos")
	v.SetDefault("PHOTO_MAX_BYTES", 10<<20)
}

// Load reads configuration from the environment (after any .env has been loaded by the caller).
func Load() *Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppPort:  v.GetString("APP_PORT"),
		DBDriver: strings.ToLower(v.GetString("DB_DRIVER")),

		MySQLHost: v.GetString("MYSQL_HOST"),
		MySQLPort: v.GetString("MYSQL_PORT"),
		MySQLDB:   v.GetString("MYSQL_DB"),
		MySQLUser: v.GetString("MYSQL_USER"),
		MySQLPass: v.GetString("MYSQL_PASS"),

		PostgresHost:    v.GetString("POSTGRES_HOST"),
		PostgresPort:    v.GetString("POSTGRES_PORT"),
		PostgresDB:      v.GetString("POSTGRES_DB"),
		PostgresUser:    v.GetString("POSTGRES_USER"),
		PostgresPass:    v.GetString("POSTGRES_PASS"),
		PostgresSSLMode: v.GetString("POSTGRES_SSLMODE"),

		SQLitePath: v.GetString("SQLITE_PATH"),

		RedisAddr:    v.GetString("REDIS_ADDR"),
		RedisDB:      v.GetInt("REDIS_DB"),
		IdempTTLSecs: v.GetInt("IDEMPOTENCY_TTL_SECONDS"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		LogOutput: v.GetString("LOG_OUTPUT"),

		JWTSecret: v.GetString("JWT_SECRET"),

		MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:    v.GetString("MINIO_BUCKET"),
		MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
		MinioPublicURL: v.GetString("MINIO_PUBLIC_URL"),

		PhotoLocalDir: v.GetString("PHOTO_LOCAL_DIR"),
		PhotoMaxBytes: v.GetInt64("PHOTO_MAX_BYTES"),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverPostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDB == "" || c.PostgresUser == "" {
			return errors.New("missing Postgres config (POSTGRES_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.PostgresPort); err != nil {
			return fmt.Errorf("invalid POSTGRES_PORT %q: %w", c.PostgresPort, err)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.MinioEndpoint != "" && (c.MinioAccessKey == "" || c.MinioSecretKey == "" || c.MinioBucket == "") {
		return errors.New("MINIO_ENDPOINT set but MINIO_ACCESS_KEY/SECRET_KEY/BUCKET missing")
	}
	if c.PhotoMaxBytes <= 0 {
		return errors.New("PHOTO_MAX_BYTES must be positive")
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPass, c.PostgresDB, c.PostgresSSLMode)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverPostgres:
		return c.PostgresDSN()
	case DriverSQLite:
		return c.SQLitePath
	default:
		return c.MySQLDSN()
	}
}
