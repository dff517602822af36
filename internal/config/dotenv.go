package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                     string
	BaseURL                  string
	Env                      string
	AutoApprove              bool
	AdminUsername            string
	AdminPassword            string
	PollIntervalSeconds      int
	PollMaxAttempts          int
	SMTPHost                 string
	SMTPPort                 string
	SMTPUsername             string
	SMTPPassword             string
	MailFrom                 string
	RedisAddr                string
	RedisPassword            string
	RedisDB                  int
	ResultsCacheSeconds      int
	HousekeepingSchedule     string
	StaleGameDays            int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
	DBAutoMigrate            bool
}

func Default() Config {
	return Config{
		Port:                     "8080",
		BaseURL:                  "http://localhost:8080",
		Env:                      "dev",
		AutoApprove:              true,
		PollIntervalSeconds:      5,
		PollMaxAttempts:          720,
		SMTPPort:                 "587",
		MailFrom:                 "commons@localhost",
		ResultsCacheSeconds:      3600,
		HousekeepingSchedule:     "@daily",
		StaleGameDays:            90,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("BASE_URL"); raw != "" {
		cfg.BaseURL = strings.TrimRight(raw, "/")
	}
	if raw := os.Getenv("ENV"); raw != "" {
		cfg.Env = raw
	}
	if raw := os.Getenv("AUTO_APPROVE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.AutoApprove = value
		}
	}
	if raw := os.Getenv("ADMIN_USERNAME"); raw != "" {
		cfg.AdminUsername = raw
	}
	if raw := os.Getenv("ADMIN_PASSWORD"); raw != "" {
		cfg.AdminPassword = raw
	}
	if raw := os.Getenv("POLL_INTERVAL_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.PollIntervalSeconds = value
		}
	}
	if raw := os.Getenv("POLL_MAX_ATTEMPTS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.PollMaxAttempts = value
		}
	}
	if raw := os.Getenv("SMTP_HOST"); raw != "" {
		cfg.SMTPHost = raw
	}
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		cfg.SMTPPort = raw
	}
	if raw := os.Getenv("SMTP_USERNAME"); raw != "" {
		cfg.SMTPUsername = raw
	}
	if raw := os.Getenv("SMTP_PASSWORD"); raw != "" {
		cfg.SMTPPassword = raw
	}
	if raw := os.Getenv("MAIL_FROM"); raw != "" {
		cfg.MailFrom = raw
	}
	if raw := os.Getenv("REDIS_ADDR"); raw != "" {
		cfg.RedisAddr = raw
	}
	if raw := os.Getenv("REDIS_PASSWORD"); raw != "" {
		cfg.RedisPassword = raw
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.RedisDB = value
		}
	}
	if raw := os.Getenv("RESULTS_CACHE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.ResultsCacheSeconds = value
		}
	}
	if raw, ok := os.LookupEnv("HOUSEKEEPING_SCHEDULE"); ok {
		cfg.HousekeepingSchedule = strings.TrimSpace(raw)
	}
	if raw := os.Getenv("STALE_GAME_DAYS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.StaleGameDays = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_AUTO_MIGRATE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.DBAutoMigrate = value
		}
	}
	return cfg
}

// AdminAuthEnabled reports whether the admin pages require basic auth.
func (c Config) AdminAuthEnabled() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}
