package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// Config holds all storefront configuration.
type Config struct {
	App     AppConfig
	Gateway GatewayConfig
	OAuth   OAuthConfig
	Session SessionConfig
	Cache   CacheConfig
	Storage StorageConfig
	SMTP    SMTPConfig
	DB      DBConfig
}

type AppConfig struct {
	Env          string
	Port         string
	PublicURL    string
	CDNImageBase string
	LogLevel     string
}

// GatewayConfig describes the upstream API gateway every page talks to.
type GatewayConfig struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// OAuthConfig holds the identity provider settings (Auth0-style tenant domain).
type OAuthConfig struct {
	Domain          string
	ClientID        string
	ClientSecret    string
	Audience        string
	RedirectURL     string
	LogoutReturnURL string
	Scopes          []string
}

type SessionConfig struct {
	CookieName   string
	CookieSecret string
	Secure       bool
	TTL          time.Duration
}

type CacheConfig struct {
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type StorageConfig struct {
	Driver          string
	LocalDir        string
	LocalURLPrefix  string
	S3Region        string
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string
}

type SMTPConfig struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // none|starttls|tls
	SkipVerifyTLS bool
	From          string
	FromName      string
}

type DBConfig struct {
	DSN string
}

// Load reads configuration from config.toml (optional) and the environment.
// Environment variables win; keys use the flat names of the deployment
// (API_BASE, OAUTH_DOMAIN, CDN_IMAGE_BASE ...).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:          v.GetString("APP_ENV"),
			Port:         v.GetString("APP_PORT"),
			PublicURL:    strings.TrimRight(v.GetString("PUBLIC_URL"), "/"),
			CDNImageBase: strings.TrimRight(v.GetString("CDN_IMAGE_BASE"), "/"),
			LogLevel:     v.GetString("LOG_LEVEL"),
		},
		Gateway: GatewayConfig{
			BaseURL: strings.TrimRight(v.GetString("API_BASE"), "/"),
			Timeout: v.GetDuration("GATEWAY_TIMEOUT"),
			RPS:     v.GetFloat64("GATEWAY_RPS"),
			Burst:   v.GetInt("GATEWAY_BURST"),
		},
		OAuth: OAuthConfig{
			Domain:          strings.TrimSuffix(strings.TrimPrefix(v.GetString("OAUTH_DOMAIN"), "https://"), "/"),
			ClientID:        v.GetString("OAUTH_CLIENT_ID"),
			ClientSecret:    v.GetString("OAUTH_CLIENT_SECRET"),
			Audience:        v.GetString("OAUTH_AUDIENCE"),
			RedirectURL:     v.GetString("OAUTH_REDIRECT_URL"),
			LogoutReturnURL: v.GetString("OAUTH_LOGOUT_RETURN_URL"),
			Scopes:          strings.Fields(v.GetString("OAUTH_SCOPES")),
		},
		Session: SessionConfig{
			CookieName:   v.GetString("SESSION_COOKIE"),
			CookieSecret: v.GetString("COOKIE_SECRET"),
			Secure:       v.GetBool("COOKIE_SECURE"),
			TTL:          v.GetDuration("SESSION_TTL"),
		},
		Cache: CacheConfig{
			TTL:           v.GetDuration("CACHE_TTL"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			Driver:          v.GetString("STORAGE_DRIVER"),
			LocalDir:        v.GetString("LOCAL_UPLOAD_DIR"),
			LocalURLPrefix:  v.GetString("LOCAL_UPLOAD_URL_PREFIX"),
			S3Region:        v.GetString("S3_REGION"),
			S3Bucket:        v.GetString("S3_BUCKET"),
			S3Prefix:        v.GetString("S3_PREFIX"),
			S3PublicBaseURL: v.GetString("S3_PUBLIC_BASE_URL"),
		},
		SMTP: SMTPConfig{
			Host:          v.GetString("SMTP_HOST"),
			Port:          v.GetString("SMTP_PORT"),
			User:          v.GetString("SMTP_USER"),
			Pass:          v.GetString("SMTP_PASS"),
			TLSMode:       v.GetString("SMTP_TLS_MODE"),
			SkipVerifyTLS: v.GetBool("SMTP_SKIP_VERIFY_TLS"),
			From:          v.GetString("MAIL_FROM"),
			FromName:      v.GetString("MAIL_FROM_NAME"),
		},
		DB: DBConfig{
			DSN: v.GetString("DB_DSN"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("PUBLIC_URL", "http://localhost:8080")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("GATEWAY_TIMEOUT", 15*time.Second)
	v.SetDefault("GATEWAY_RPS", 50.0)
	v.SetDefault("GATEWAY_BURST", 20)

	v.SetDefault("OAUTH_SCOPES", "openid profile email offline_access")

	v.SetDefault("SESSION_COOKIE", "rumal_session")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("SESSION_TTL", 7*24*time.Hour)

	v.SetDefault("CACHE_TTL", 30*time.Second)

	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("LOCAL_UPLOAD_DIR", "./storage/uploads")
	v.SetDefault("LOCAL_UPLOAD_URL_PREFIX", "/uploads")
	v.SetDefault("S3_PREFIX", "products")

	v.SetDefault("SMTP_PORT", "1025")
	v.SetDefault("SMTP_TLS_MODE", "none")
	v.SetDefault("MAIL_FROM", "no-reply@rumal.store")
	v.SetDefault("MAIL_FROM_NAME", "Rumal Store")
}

// Validate reports every missing required key at once.
func (c *Config) Validate() error {
	var missing []string
	if c.Gateway.BaseURL == "" {
		missing = append(missing, "API_BASE")
	}
	if c.DB.DSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if c.Session.CookieSecret == "" {
		missing = append(missing, "COOKIE_SECRET")
	}
	if c.OAuth.Domain == "" {
		missing = append(missing, "OAUTH_DOMAIN")
	}
	if c.OAuth.ClientID == "" {
		missing = append(missing, "OAUTH_CLIENT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// SessionDSN returns the MySQL DSN with the options the session store relies on.
func (c DBConfig) SessionDSN() (string, error) {
	mc, err := mysql.ParseDSN(c.DSN)
	if err != nil {
		return "", fmt.Errorf("invalid DB_DSN: %w", err)
	}
	mc.ParseTime = true
	return mc.FormatDSN(), nil
}
