package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, []string{"http://localhost:5173", "https://jeogi.vercel.app"}, cfg.Server.TrustedOrigins)
	assert.Equal(t, TokenFormatJWT, cfg.Auth.TokenFormat)
	assert.True(t, cfg.Auth.VerifySignatures)
	assert.Equal(t, 30*time.Minute, cfg.Signup.TokenTTL)
	assert.Equal(t, "gachon.ac.kr", cfg.Signup.AllowedEmailDomain)
	assert.Equal(t, "product-images", cfg.Storage.Bucket)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxUploadBytes)
	assert.False(t, cfg.Email.UsesSendGrid())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("BASE_URL", "https://jeogi.vercel.app/")
	t.Setenv("TRUSTED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SIGNUP_TOKEN_TTL", "600")
	t.Setenv("ACCESS_TOKEN_DURATION", "0")
	t.Setenv("AUTH_VERIFY_SIGNATURES", "false")
	t.Setenv("SENDGRID_API_KEY", "SG.key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "https://jeogi.vercel.app", cfg.Server.BaseURL)
	assert.Equal(t, "https://jeogi.vercel.app/api/verify", cfg.Server.VerifyURL())
	assert.Equal(t, "https://jeogi.vercel.app/login", cfg.Server.LoginURL())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.TrustedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Signup.TokenTTL)
	assert.Zero(t, cfg.Auth.AccessTokenDuration)
	assert.False(t, cfg.Auth.VerifySignatures)
	assert.True(t, cfg.Email.UsesSendGrid())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("SERVER_READ_TIMEOUT", "soon")
	t.Setenv("DB_AUTO_MIGRATE", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoad_ValidatesTokenSettings(t *testing.T) {
	t.Run("jwt without secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("paseto with short key", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_FORMAT", "paseto")
		t.Setenv("PASETO_KEY", "short")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 bytes")
	})

	t.Run("paseto with valid key", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_FORMAT", "PASETO")
		t.Setenv("PASETO_KEY", "0123456789abcdef0123456789abcdef")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, TokenFormatPaseto, cfg.Auth.TokenFormat)
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_FORMAT", "saml")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "jeogi", SSLMode: "require"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=jeogi sslmode=require", c.ConnectionString())

	c.ChannelBinding = "require"
	assert.Contains(t, c.ConnectionString(), " channel_binding=require")
}
