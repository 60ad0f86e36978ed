package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LEDGER", "PAYPAL_TEST", "PAYPAL_VERIFY", "KAFKA_BROKERS", "LEDGER_SIZE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.Ledger)
	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, 4096, cfg.LedgerSize)
	assert.True(t, cfg.PayPalTest)
	assert.True(t, cfg.PayPalVerify, "postback verification is on unless disabled")
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_PayPalVerifyOptOut(t *testing.T) {
	t.Setenv("PAYPAL_VERIFY", "false")
	assert.False(t, Load().PayPalVerify)

	t.Setenv("PAYPAL_VERIFY", "true")
	assert.True(t, Load().PayPalVerify)

	t.Setenv("PAYPAL_VERIFY", "")
	assert.True(t, Load().PayPalVerify, "empty value keeps verification on")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LEDGER", "memory")
	t.Setenv("LEDGER_SIZE", "not-a-number")
	t.Setenv("PAYPAL_ACCT_EMAIL", "email-facilitator@gmail.com")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5434")

	cfg := Load()
	assert.False(t, cfg.UsesDatabase())
	assert.Equal(t, 4096, cfg.LedgerSize)
	assert.Equal(t, "email-facilitator@gmail.com", cfg.MerchantEmail)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "postgres://donations:donations_secret@db:5434/donations?sslmode=disable", cfg.DatabaseURL())
}

func TestLoadEnvFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MAIL_TRANSPORT=smtp\nEMAIL_HOST=mail.example.org\n"), 0o600))

	t.Setenv("EMAIL_HOST", "already-set")
	t.Setenv("MAIL_TRANSPORT", "")
	os.Unsetenv("MAIL_TRANSPORT")

	require.NoError(t, LoadEnvFiles(path))
	t.Cleanup(func() { os.Unsetenv("MAIL_TRANSPORT") })

	cfg := Load()
	assert.Equal(t, "smtp", cfg.MailTransport)
	assert.Equal(t, "already-set", cfg.SMTPHost, "existing variables win")

	assert.NoError(t, LoadEnvFiles())
	assert.Error(t, LoadEnvFiles(filepath.Join(t.TempDir(), "missing.env")))
}
