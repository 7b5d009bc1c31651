package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("OPERATOR_API_KEY", "operator-key")
	t.Setenv("TIMEZONE", "UTC")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 50, cfg.Catalog.LowStockThreshold)
	assert.Equal(t, "94", cfg.WhatsApp.CountryCode)
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL())
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Origins())
	assert.Empty(t, cfg.KafkaBrokers())
}

func TestLoad_DotEnvFile(t *testing.T) {
	setBaseEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "LOW_STOCK_THRESHOLD=20\nKAFKA_BROKERS=k1:9092, k2:9092\nTEST_ONLY_MARKER=1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("LOW_STOCK_THRESHOLD")
		os.Unsetenv("KAFKA_BROKERS")
		os.Unsetenv("TEST_ONLY_MARKER")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Catalog.LowStockThreshold)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "DB_DRIVER", "oracle"},
		{"mongo without uri", "DB_DRIVER", "mongo"},
		{"bad ttl", "SESSION_TTL", "three days"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"bad backup hour", "BACKUP_HOUR", "25"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tc.key, tc.value)
			_, err := Load(filepath.Join(t.TempDir(), "none.env"))
			assert.Error(t, err)
		})
	}

	t.Run("missing secret", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("JWT_SECRET", "")
		_, err := Load(filepath.Join(t.TempDir(), "none.env"))
		assert.Error(t, err)
	})
}
