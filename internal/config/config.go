package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/contractgov/contract-api/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Reports   ReportsConfig
	Jobs      JobsConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	AutoMigrate     bool
}

// AuthConfig holds session token settings
type AuthConfig struct {
	// JWTSecret signs session tokens (HS256)
	JWTSecret string
	// Issuer is written to and checked against the iss claim
	Issuer string
	// TokenTTLHours is the lifetime of a session
	TokenTTLHours int
	// AdminEmails receive the admin profile role on sign-up
	AdminEmails []string
}

type StorageConfig struct {
	// Mode is one of "local", "azure" or "s3"
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	S3Bucket              string
	S3Region              string
	ReportPrefix          string
}

// ReportsConfig controls report export
type ReportsConfig struct {
	// ArchiveEnabled stores a copy of every exported report in storage
	ArchiveEnabled bool
}

// JobsConfig holds background job configuration
type JobsConfig struct {
	DeadlineAlertEnabled bool
	// DeadlineAlertCron uses the six-field format with seconds
	DeadlineAlertCron  string
	DeadlineWindowDays int
	SessionCleanupCron string
	// SessionRetentionDays keeps expired sessions this long before deletion
	SessionRetentionDays int
	// TimeoutSeconds bounds a single job run
	TimeoutSeconds int
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	// "auto" uses environment in development, vault in staging/production
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is a list of allowed origins for CORS requests
	// Use "*" to allow all origins (not recommended for production)
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	// MaxAge is the max age (in seconds) for preflight cache
	MaxAge int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	// FrameOptions sets the X-Frame-Options header (DENY, SAMEORIGIN, or empty to disable)
	FrameOptions       string
	ContentTypeNosniff bool
	XSSProtection      string
	ReferrerPolicy     string
	PermissionsPolicy  string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute is the limit for unauthenticated requests (per IP)
	RequestsPerMinute int
	// RequestsPerMinuteAuth is the limit for authenticated requests (per user)
	RequestsPerMinuteAuth int
	// RequestsPerMinuteAuthEndpoints limits sign-in and sign-up attempts per IP
	RequestsPerMinuteAuthEndpoints int
	WhitelistIPs                   []string
	WhitelistPaths                 []string
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// TokenTTL returns the session lifetime
func (a *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// IsAdminEmail reports whether email is configured as an administrator
func (a *AuthConfig) IsAdminEmail(email string) bool {
	for _, e := range a.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

// TimeoutDuration returns the job timeout as duration
func (j *JobsConfig) TimeoutDuration() time.Duration {
	return time.Duration(j.TimeoutSeconds) * time.Second
}

// Load loads configuration from file and environment variables
// This is a basic load that doesn't fetch secrets from vault
// Use LoadWithSecrets for full secret resolution
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if admins := v.GetString("ADMIN_EMAILS"); admins != "" && len(cfg.Auth.AdminEmails) == 0 {
		cfg.Auth.AdminEmails = strings.Split(admins, ",")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and, in staging or production with
// USE_AZURE_KEY_VAULT=true, overlays credentials read from Azure Key Vault.
// Everywhere else secrets come from the environment.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if reason, ok := cfg.vaultDisabled(); ok {
		logger.Info("using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
			zap.String("reason", reason),
		)
		return cfg, cfg.validate()
	}
	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}
	if err := applySecrets(ctx, cfg, provider); err != nil {
		return nil, err
	}

	logger.Info("secrets loaded from key vault", zap.String("key_vault_name", cfg.Secrets.KeyVaultName))
	return cfg, cfg.validate()
}

func (c *Config) vaultDisabled() (string, bool) {
	if !strings.EqualFold(os.Getenv("USE_AZURE_KEY_VAULT"), "true") {
		return "USE_AZURE_KEY_VAULT not enabled", true
	}
	if c.App.Environment != "staging" && c.App.Environment != "production" {
		return "key vault is only used in staging and production", true
	}
	return "", false
}

// SecretSource is the subset of the secrets provider used to resolve configuration
type SecretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error)
}

// applySecrets overwrites optional credentials when the source has them. The
// JWT secret is mandatory.
func applySecrets(ctx context.Context, cfg *Config, provider SecretSource) error {
	optional := []struct {
		secret, env string
		target      *string
	}{
		{secrets.NamePostgresHost, "DATABASE_HOST", &cfg.Database.Host},
		{secrets.NamePostgresUser, "DATABASE_USER", &cfg.Database.User},
		{secrets.NamePostgresPassword, "DATABASE_PASSWORD", &cfg.Database.Password},
		{secrets.NameStorageConnection, "STORAGE_CLOUDCONNECTIONSTRING", &cfg.Storage.CloudConnectionString},
	}
	for _, o := range optional {
		if value, err := provider.GetSecretOrEnv(ctx, o.secret, o.env); err == nil && value != "" {
			*o.target = value
		}
	}
	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}

	secret, err := provider.GetSecretOrEnv(ctx, secrets.NameJWTSecret, "JWT_SECRET")
	if err != nil {
		return fmt.Errorf("failed to load JWT secret: %w", err)
	}
	cfg.Auth.JWTSecret = secret
	return nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		if c.App.Environment == "production" || c.App.Environment == "staging" {
			return fmt.Errorf("auth.jwtSecret is required in %s", c.App.Environment)
		}
		c.Auth.JWTSecret = "development-secret-change-me"
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("auth.jwtSecret must be at least 16 characters")
	}
	if c.Jobs.DeadlineWindowDays < 0 {
		return fmt.Errorf("jobs.deadlineWindowDays must not be negative")
	}
	return nil
}

// defaults is keyed by viper path; config files and the environment override it
var defaults = map[string]interface{}{
	// app
	"app.name":        "ContractGov API",
	"app.environment": "development",
	"app.port":        8080,

	// database
	"database.host":            "localhost",
	"database.port":            5432,
	"database.name":            "contractgov",
	"database.user":            "contractgov_user",
	"database.password":        "contractgov_password",
	"database.sslMode":         "disable",
	"database.maxOpenConns":    25,
	"database.maxIdleConns":    5,
	"database.connMaxLifetime": 300,
	"database.autoMigrate":     false,

	// auth
	"auth.issuer":        "contractgov",
	"auth.tokenTTLHours": 24,
	"auth.adminEmails":   []string{},

	// secrets
	"secrets.source":       "auto",
	"secrets.cacheEnabled": true,
	"secrets.cacheTTL":     300,

	// storage
	"storage.mode":           "local",
	"storage.localBasePath":  "./storage",
	"storage.cloudContainer": "reports",
	"storage.s3Region":       "sa-east-1",
	"storage.reportPrefix":   "reports",

	// reports
	"reports.archiveEnabled": false,

	// jobs
	"jobs.deadlineAlertEnabled": true,
	"jobs.deadlineAlertCron":    "0 0 8 * * *", // 08:00 every day
	"jobs.deadlineWindowDays":   15,
	"jobs.sessionCleanupCron":   "0 30 3 * * *",
	"jobs.sessionRetentionDays": 7,
	"jobs.timeoutSeconds":       120,

	// logging
	"logging.level":  "info",
	"logging.format": "console",

	// server
	"server.readTimeout":    30,
	"server.writeTimeout":   30,
	"server.requestTimeout": 60,
	"server.enableSwagger":  true,

	// cors
	"cors.allowedOrigins":   []string{},
	"cors.allowedMethods":   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	"cors.allowedHeaders":   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	"cors.exposedHeaders":   []string{"Content-Disposition", "X-Report-Path", "X-Request-ID"},
	"cors.allowCredentials": true,
	"cors.maxAge":           300,

	// security
	"security.enableHSTS":            false,
	"security.hstsMaxAge":            31536000,
	"security.hstsIncludeSubdomains": true,
	"security.hstsPreload":           false,
	"security.contentSecurityPolicy": "default-src 'self'",
	"security.frameOptions":          "DENY",
	"security.contentTypeNosniff":    true,
	"security.xssProtection":         "1; mode=block",
	"security.referrerPolicy":        "strict-origin-when-cross-origin",
	"security.permissionsPolicy":     "geolocation=(), microphone=(), camera=()",

	// rate
	"rateLimit.enabled":                        true,
	"rateLimit.requestsPerMinute":              60,
	"rateLimit.requestsPerMinuteAuth":          120,
	"rateLimit.requestsPerMinuteAuthEndpoints": 10,
	"rateLimit.whitelistIPs":                   []string{"127.0.0.1", "::1"},
	"rateLimit.whitelistPaths":                 []string{"/health", "/health/db", "/health/ready", "/metrics"},

	// metrics
	"metrics.enabled": true,
	"metrics.path":    "/metrics",
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
