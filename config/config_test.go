package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("JWT_SECRET", "jwt")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("PORT", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("EMAIL_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017/", cfg.MongoURI)
	assert.Equal(t, "eventease", cfg.DBName)
	assert.False(t, cfg.Email.Enabled())
}

func TestLoadEmailConfig(t *testing.T) {
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("EMAIL_HOST", "smtp.example.com")
	t.Setenv("EMAIL_PORT", "2525")
	t.Setenv("EMAIL_USER", "mailer@example.com")
	t.Setenv("EMAIL_PASS", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Email.Enabled())
	assert.Equal(t, "smtp.example.com", cfg.Email.Host)
	assert.Equal(t, "2525", cfg.Email.Port)
	assert.Equal(t, "mailer@example.com", cfg.Email.User)
	assert.Equal(t, "hunter2", cfg.Email.Pass)
}
