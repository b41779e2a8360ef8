package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"cableerp/db"
	"cableerp/logger"
	"cableerp/utils"
)

type Config struct {
	Port           string
	DBType         db.DBType
	PostgresURL    string
	MongoURL       string
	MongoDB        string
	MigrationsPath string
	JWTSecret      string
	JWTTTL         time.Duration
	RedisURL       string
	RateLimit      string
	PDFDir         string
	CORSOrigin     string
	R2             utils.R2Config
	Log            logger.LogConfig
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment variables")
	}

	dbType, err := db.ParseDBType(os.Getenv("DB_TYPE"))
	if err != nil {
		return nil, err
	}
	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, errors.New("JWT_TTL must be a duration like 24h")
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = getEnv("LOG_LEVEL", logCfg.Level)
	logCfg.Format = getEnv("LOG_FORMAT", logCfg.Format)
	logCfg.Output = getEnv("LOG_OUTPUT", logCfg.Output)

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBType:         dbType,
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		MongoURL:       getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "cableerp"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://db/migrations"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTTTL:         ttl,
		RedisURL:       os.Getenv("REDIS_URL"),
		RateLimit:      getEnv("RATE_LIMIT", "300-M"),
		PDFDir:         getEnv("PDF_DIR", "./pdfs"),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		R2: utils.R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("R2_BUCKET"),
			PublicURL:       os.Getenv("R2_PUBLIC_URL"),
		},
		Log: logCfg,
	}
	return cfg, cfg.Validate()
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	var errs []string
	switch c.DBType {
	case db.Postgres:
		if c.PostgresURL == "" {
			errs = append(errs, "POSTGRES_URL is required when DB_TYPE=postgres")
		}
	case db.Mongo:
		if c.MongoURL == "" {
			errs = append(errs, "MONGO_URL is required when DB_TYPE=mongo")
		}
	}
	if c.JWTSecret == "" && c.DBType != db.Memory {
		errs = append(errs, "JWT_SECRET is required")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
