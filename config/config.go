// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"os"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	App struct {
		Port          string `env:"PORT"`
		Env           string `env:"APP_ENV"`
		PublicBaseURL string `env:"PUBLIC_BASE_URL"`
		CORSOrigins   string `env:"CORS_ORIGINS"`
		Timezone      string `env:"TIMEZONE"`
	}

	Log struct {
		Level  string `env:"LOG_LEVEL"`
		Format string `env:"LOG_FORMAT"`
	}

	DB struct {
		Driver   string `env:"DB_DRIVER"`
		URL      string `env:"DATABASE_URL"`
		Host     string `env:"DB_HOST"`
		Port     string `env:"DB_PORT"`
		User     string `env:"DB_USER"`
		Password string `env:"DB_PASSWORD"`
		Name     string `env:"DB_NAME"`
	}

	Mongo struct {
		URI      string `env:"MONGO_URI"`
		Database string `env:"MONGO_DATABASE"`
	}

	Auth struct {
		JWTSecret      string `env:"JWT_SECRET"`
		SessionTTL     string `env:"SESSION_TTL"`
		OperatorAPIKey string `env:"OPERATOR_API_KEY"`
	}

	Uploads struct {
		Dir             string `env:"UPLOADS_DIR"`
		BackupDir       string `env:"BACKUP_DIR"`
		BackupRetention int    `env:"BACKUP_RETENTION"`
		BackupHour      int    `env:"BACKUP_HOUR"`
	}

	Catalog struct {
		LowStockThreshold int `env:"LOW_STOCK_THRESHOLD"`
	}

	WhatsApp struct {
		APIURL      string `env:"WHATSAPP_API_URL"`
		Token       string `env:"WHATSAPP_TOKEN"`
		CountryCode string `env:"WHATSAPP_COUNTRY_CODE"`
	}

	SMTP struct {
		Host     string `env:"SMTP_HOST"`
		Port     int    `env:"SMTP_PORT"`
		User     string `env:"SMTP_USER"`
		Password string `env:"SMTP_PASSWORD"`
		From     string `env:"SMTP_FROM"`
	}

	Kafka struct {
		Brokers string `env:"KAFKA_BROKERS"`
		Topic   string `env:"KAFKA_TOPIC"`
	}

	Notify struct {
		Retries   int `env:"NOTIFY_RETRIES"`
		QueueSize int `env:"NOTIFY_QUEUE_SIZE"`
	}

	Company struct {
		Name              string `env:"COMPANY_NAME"`
		BankAccountName   string `env:"BANK_ACCOUNT_NAME"`
		BankAccountNumber string `env:"BANK_ACCOUNT_NUMBER"`
		BankBranch        string `env:"BANK_BRANCH"`
	}
}

// Load reads path (or ./.env when empty) into the process environment when
// the file exists, then unmarshals the environment.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return nil, errors.Wrapf(err, "config: load %s", path)
		}
	}

	cfg := &Config{}
	if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal environment")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	setString(&c.App.Port, "8080")
	setString(&c.App.Env, "development")
	setString(&c.App.PublicBaseURL, "http://localhost:"+c.App.Port)
	setString(&c.App.CORSOrigins, "http://localhost:3000")
	setString(&c.App.Timezone, "Asia/Colombo")
	setString(&c.Log.Level, "info")
	setString(&c.Log.Format, "json")
	setString(&c.DB.Driver, "postgres")
	setString(&c.DB.Host, "localhost")
	setString(&c.DB.Port, "5432")
	setString(&c.Mongo.Database, "greenlink")
	setString(&c.Auth.SessionTTL, "72h")
	setString(&c.Uploads.Dir, "uploads")
	setString(&c.Uploads.BackupDir, "backups")
	setInt(&c.Uploads.BackupRetention, 7)
	setInt(&c.Uploads.BackupHour, 2)
	setInt(&c.Catalog.LowStockThreshold, 50)
	setString(&c.WhatsApp.CountryCode, "94")
	setInt(&c.SMTP.Port, 587)
	setString(&c.Kafka.Topic, "greenlink.payments")
	setInt(&c.Notify.Retries, 3)
	setInt(&c.Notify.QueueSize, 256)
	setString(&c.Company.Name, "GreenLink")
}

// Validate reports the first setting that would stop the service from
// starting correctly.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres":
	case "mongo":
		if c.Mongo.URI == "" {
			return errors.New("config: MONGO_URI is required when DB_DRIVER=mongo")
		}
	default:
		return errors.Errorf("config: unknown DB_DRIVER %q", c.DB.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.Auth.OperatorAPIKey == "" {
		return errors.New("config: OPERATOR_API_KEY is required")
	}
	if _, err := time.ParseDuration(c.Auth.SessionTTL); err != nil {
		return errors.Wrap(err, "config: SESSION_TTL")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return errors.Wrap(err, "config: TIMEZONE")
	}
	if c.Uploads.BackupHour < 0 || c.Uploads.BackupHour > 23 {
		return errors.Errorf("config: BACKUP_HOUR %d out of range", c.Uploads.BackupHour)
	}
	if c.Catalog.LowStockThreshold < 0 {
		return errors.New("config: LOW_STOCK_THRESHOLD must not be negative")
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return errors.Errorf("config: LOG_FORMAT %q", c.Log.Format)
	}
	return nil
}

func (c *Config) SessionTTL() time.Duration {
	d, _ := time.ParseDuration(c.Auth.SessionTTL)
	return d
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) Origins() []string {
	return splitList(c.App.CORSOrigins)
}

func (c *Config) KafkaBrokers() []string {
	return splitList(c.Kafka.Brokers)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

func setInt(field *int, def int) {
	if *field == 0 {
		*field = def
	}
}
