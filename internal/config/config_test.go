package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.RestoreAtomic)
	assert.False(t, cfg.RemindersEnabled())
	assert.Equal(t, "0 20 * * *", cfg.ReminderCron)
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("RESTORE_ATOMIC", "true")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.RestoreAtomic)
	assert.True(t, cfg.RemindersEnabled())
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestNewConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"DB_CONN":        "",
		"JWT_SECRET":     "",
		"TOKEN_TTL":      "soon",
		"RESTORE_ATOMIC": "maybe",
		"BCRYPT_COST":    "99",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}
