package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/weddingrsvp/internal/auth"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig("testdata")
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "console", cfg.Server.LogFormat)
	require.Equal(t, "https://rsvp.example.com/", cfg.Server.PublicBaseURL)
	require.True(t, cfg.Server.CookieSecure)
	require.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORS.AllowedOrigins)
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)
	require.Equal(t, "weddings", cfg.Database.Postgres.Database)
	require.Equal(t, 3306, cfg.Database.MySQL.Port)

	require.True(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, "redis.example.com:6380", cfg.Cache.Redis.Address)
	require.Equal(t, 2, cfg.Cache.Redis.DB)
	require.Equal(t, 3*time.Second, cfg.Cache.Redis.Timeout)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "weddingrsvp", cfg.Auth.JWT.Issuer)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)
	require.Equal(t, 1440*time.Hour, cfg.Auth.Session.RefreshTTL)
	require.Equal(t, 64, cfg.Auth.Session.RefreshLength)
	require.Equal(t, 45*time.Minute, cfg.Auth.PasswordReset.TTL)

	require.True(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, "smtp.example.com", cfg.Email.SMTP.Host)
	require.Equal(t, 2525, cfg.Email.SMTP.Port)
	require.Equal(t, "no-reply@example.com", cfg.Email.SMTP.From)
	require.Equal(t, "Ana & Ben", cfg.Email.SMTP.FromName)
	require.Equal(t, 15*time.Second, cfg.Email.SMTP.Timeout)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "json", cfg.Server.LogFormat)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "./data/weddingrsvp.sqlite", cfg.Database.Path)
	require.False(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, 15*time.Minute, cfg.Auth.JWT.TTL)
	require.Equal(t, 720*time.Hour, cfg.Auth.Session.RefreshTTL)
	require.Equal(t, time.Hour, cfg.Auth.PasswordReset.TTL)
	require.False(t, cfg.Email.SMTP.Enabled)
	require.Empty(t, cfg.Server.CORS.AllowedOrigins)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("WEDDINGRSVP_SERVER_PORT", "7070")
	t.Setenv("WEDDINGRSVP_DATABASE_DRIVER", "mysql")
	t.Setenv("WEDDINGRSVP_AUTH_JWT_ACCESS_TOKEN_TTL", "5m")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "mysql", cfg.Database.Driver)
	require.Equal(t, 5*time.Minute, cfg.Auth.JWT.TTL)
}

func TestAuthConfigAdapters(t *testing.T) {
	cfg := AuthConfig{
		JWT: JWTSettings{Secret: "s3cr3t", Issuer: "weddingrsvp", TTL: 20 * time.Minute},
		Session: SessionSettings{
			RefreshTTL:    48 * time.Hour,
			RefreshLength: 32,
		},
	}

	jwtCfg := cfg.JWTServiceConfig()
	require.Equal(t, "s3cr3t", jwtCfg.Secret)
	require.Equal(t, 20*time.Minute, jwtCfg.AccessTokenTTL)

	sessionCfg := cfg.SessionServiceConfig()
	require.Equal(t, 48*time.Hour, sessionCfg.RefreshTokenTTL)
	require.Equal(t, 32, sessionCfg.RefreshLength)
	require.Equal(t, time.Hour, cfg.PasswordResetTTL())

	empty := AuthConfig{}
	require.Equal(t, auth.DefaultAccessTokenTTL, empty.JWTServiceConfig().AccessTokenTTL)
	require.Equal(t, auth.DefaultRefreshTokenTTL, empty.SessionServiceConfig().RefreshTokenTTL)
	require.Equal(t, 48, empty.SessionServiceConfig().RefreshLength)
}

func TestCacheAndEmailAdapters(t *testing.T) {
	cfg := Config{
		Cache: CacheConfig{Redis: RedisCacheConfig{Address: " localhost:6379 ", DB: 3, Timeout: time.Second}},
		Email: EmailConfig{SMTP: SMTPConfig{Host: "smtp", Port: 25, FromName: "Us"}},
	}

	redisCfg := cfg.Cache.RedisClientConfig()
	require.Equal(t, "localhost:6379", redisCfg.Address)
	require.Equal(t, 3, redisCfg.DB)

	smtp := cfg.Email.SMTPSettings()
	require.Equal(t, "smtp", smtp.Host)
	require.Equal(t, "Us", smtp.FromName)
}
