package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	GinMode     string
	LogLevel    string

	Ledger     string
	LedgerSize int

	MerchantEmail string
	PayPalTest    bool
	PayPalVerify  bool
	SiteURL       string

	FromEmail     string
	MailTransport string
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPassword  string
	KafkaBrokers  []string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string
}

// LoadEnvFiles seeds the environment from .env files. Variables already
// set are left alone.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "donations"),
		DBPassword:  getEnv("DB_PASSWORD", "donations_secret"),
		DBName:      getEnv("DB_NAME", "donations"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",
		GinMode:     getEnv("GIN_MODE", "debug"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Ledger:     getEnv("LEDGER", "postgres"),
		LedgerSize: getEnvInt("LEDGER_SIZE", 4096),

		MerchantEmail: getEnv("PAYPAL_ACCT_EMAIL", "info-facilitator@example.org"),
		PayPalTest:    getEnv("PAYPAL_TEST", "true") == "true",
		PayPalVerify:  getEnv("PAYPAL_VERIFY", "true") != "false",
		SiteURL:       getEnv("SITE_URL", "http://localhost:8080"),

		FromEmail:     getEnv("DEFAULT_FROM_EMAIL", "info@chelseasymphony.org"),
		MailTransport: getEnv("MAIL_TRANSPORT", "console"),
		SMTPHost:      getEnv("EMAIL_HOST", "localhost"),
		SMTPPort:      getEnv("EMAIL_PORT", "25"),
		SMTPUser:      getEnv("EMAIL_HOST_USER", ""),
		SMTPPassword:  getEnv("EMAIL_HOST_PASSWORD", ""),
		KafkaBrokers:  splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "donation-emails"),
		KafkaUsername: getEnv("KAFKA_USERNAME", ""),
		KafkaPassword: getEnv("KAFKA_PASSWORD", ""),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func (c *Config) UsesDatabase() bool {
	return c.Ledger == "postgres"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
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
