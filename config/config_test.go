package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 24, cfg.JWT.ExpireHours)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRE_HOURS", "1")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 1, cfg.JWT.ExpireHours)
	assert.Equal(t, "smtp.example.com", cfg.Email.SMTPHost)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("READ_TIMEOUT_SEC", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "seatwave", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/seatwave?sslmode=disable", c.DSN())

	c.URL = "postgres://localhost:5432/other?sslmode=disable"
	assert.Equal(t, "postgres://localhost:5432/other?sslmode=disable", c.DSN())
}
