package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppEnv string
	Port   string

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	// DBDSN overrides the host/user/... fields when set. For sqlite it is
	// the file path (or ":memory:").
	DBDSN        string
	DBMaxRetries int
	AutoMigrate  bool

	RedisAddr   string
	KafkaBroker string
	// CORSOrigins empty allows every origin.
	CORSOrigins []string

	JWTSecret     string
	RBACModelPath string

	// DueDateSkipWeekends moves weekend due dates to the following Monday.
	DueDateSkipWeekends bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func Load() *Config {
	return &Config{
		AppEnv: getEnvOrDefault("APP_ENV", "development"),
		Port:   getEnvOrDefault("PORT", "3000"),

		DBDriver:     strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverPostgres)),
		DBHost:       getEnvOrDefault("DB_HOST", "localhost"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       getEnvOrDefault("DB_NAME", "onboarding"),
		DBPort:       os.Getenv("DB_PORT"),
		DBSSLMode:    getEnvOrDefault("DB_SSLMODE", "disable"),
		DBDSN:        os.Getenv("DB_DSN"),
		DBMaxRetries: getIntOrDefault("DB_MAX_RETRIES", 5),
		AutoMigrate:  getBoolOrDefault("AUTO_MIGRATE", true),

		RedisAddr:   os.Getenv("REDIS_ADDR"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		RBACModelPath: os.Getenv("RBAC_MODEL_PATH"),

		DueDateSkipWeekends: getBoolOrDefault("DUE_DATE_SKIP_WEEKENDS", true),

		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
