package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE", "https://api.rumal.store/")
	t.Setenv("OAUTH_DOMAIN", "https://rumal.eu.auth0.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.rumal.store", cfg.Gateway.BaseURL)
	assert.Equal(t, "rumal.eu.auth0.com", cfg.OAuth.Domain)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 15*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "rumal_session", cfg.Session.CookieName)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, []string{"openid", "profile", "email", "offline_access"}, cfg.OAuth.Scopes)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("GATEWAY_RPS", "5")
	t.Setenv("CDN_IMAGE_BASE", "https://cdn.rumal.store/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 5.0, cfg.Gateway.RPS)
	assert.Equal(t, "https://cdn.rumal.store", cfg.App.CDNImageBase)
}

func TestValidate_ReportsAllMissingKeys(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"API_BASE", "DB_DSN", "COOKIE_SECRET", "OAUTH_DOMAIN", "OAUTH_CLIENT_ID"} {
		assert.Contains(t, err.Error(), key)
	}

	cfg = &Config{
		Gateway: GatewayConfig{BaseURL: "http://gw"},
		DB:      DBConfig{DSN: "u:p@tcp(localhost:3306)/rumal"},
		Session: SessionConfig{CookieSecret: "s"},
		OAuth:   OAuthConfig{Domain: "d", ClientID: "c"},
	}
	assert.NoError(t, cfg.Validate())
}

func TestSessionDSN_ForcesParseTime(t *testing.T) {
	dsn, err := DBConfig{DSN: "u:p@tcp(localhost:3306)/rumal"}.SessionDSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	_, err = DBConfig{DSN: "not a dsn"}.SessionDSN()
	assert.Error(t, err)
}
