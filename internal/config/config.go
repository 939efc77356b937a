package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	OAuth2Google OAuth2GoogleConfig
	SMTP         SMTPConfig
	Storage      StorageConfig
	Policy       PolicyConfig
	RateLimit    RateLimitConfig
	Cron         CronConfig
	Bootstrap    BootstrapConfig
	Metrics      MetricsConfig
}

type DatabaseConfig struct {
	Host           string `env:"DB_HOST" envDefault:"localhost"`
	Port           int    `env:"DB_PORT" envDefault:"5432"`
	User           string `env:"DB_USER" envDefault:"postgres"`
	Password       string `env:"DB_PASSWORD"`
	Name           string `env:"DB_NAME" envDefault:"ems"`
	SSLMode        string `env:"DB_SSL_MODE" envDefault:"disable"`
	MigrateOnStart bool   `env:"DB_MIGRATE_ON_START" envDefault:"true"`

	MaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"25"`
	MinConns        int32         `env:"DB_MIN_CONNS" envDefault:"5"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string `env:"JWT_SECRET_KEY"`
	RefreshExpiration string `env:"JWT_REFRESH_EXPIRATION_TIME" envDefault:"168h"`
	AccessExpiration  string `env:"JWT_ACCESS_EXPIRATION_TIME" envDefault:"15m"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int      `env:"APP_PORT" envDefault:"8080"`
	Env         string   `env:"APP_ENV" envDefault:"development"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	FrontendURL string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

type OAuth2GoogleConfig struct {
	ClientID     string   `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string   `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string   `env:"GOOGLE_REDIRECT_URL"`
	Scopes       []string `env:"GOOGLE_SCOPES" envDefault:"https://www.googleapis.com/auth/userinfo.email,https://www.googleapis.com/auth/userinfo.profile" envSeparator:","`
}

// SMTPConfig holds mail settings. An empty Host disables sending.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"no-reply@ems.local"`
	FromName string `env:"SMTP_FROM_NAME" envDefault:"EMS"`
}

type StorageConfig struct {
	Driver          string   `env:"STORAGE_DRIVER" envDefault:"local"`
	LocalPath       string   `env:"STORAGE_LOCAL_PATH" envDefault:"./uploads"`
	LocalBaseURL    string   `env:"STORAGE_LOCAL_BASE_URL" envDefault:"http://localhost:8080/uploads"`
	S3Bucket        string   `env:"STORAGE_S3_BUCKET"`
	S3Region        string   `env:"STORAGE_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint      string   `env:"STORAGE_S3_ENDPOINT"`
	S3AccessKey     string   `env:"STORAGE_S3_ACCESS_KEY"`
	S3SecretKey     string   `env:"STORAGE_S3_SECRET_KEY"`
	S3UsePathStyle  bool     `env:"STORAGE_S3_USE_PATH_STYLE" envDefault:"false"`
	MaxUploadSize   int64    `env:"STORAGE_MAX_UPLOAD_SIZE" envDefault:"10485760"`
	AllowedFileExts []string `env:"STORAGE_ALLOWED_EXTS" envDefault:".pdf,.doc,.docx,.jpg,.jpeg,.png,.txt" envSeparator:","`
}

// PolicyConfig carries the business policy that used to be hardcoded:
// leave allocation per type, payroll rates and the late threshold.
type PolicyConfig struct {
	LeaveAllocation map[string]int  `env:"POLICY_LEAVE_ALLOCATION" envDefault:"ANNUAL:20,SICK:10,MATERNITY:90,PATERNITY:10,UNPAID:30" envSeparator:"," envKeyValSeparator:":"`
	AllowanceRate   decimal.Decimal `env:"POLICY_ALLOWANCE_RATE" envDefault:"0.10"`
	TaxRate         decimal.Decimal `env:"POLICY_TAX_RATE" envDefault:"0.15"`
	LateHour        int             `env:"POLICY_LATE_HOUR" envDefault:"9"`
	LeaveClockIn    string          `env:"POLICY_LEAVE_CLOCK_IN" envDefault:"09:00"`
	TimeZone        string          `env:"APP_TIMEZONE" envDefault:"Local"`
}

// Location resolves the configured time zone.
func (p PolicyConfig) Location() (*time.Location, error) {
	return time.LoadLocation(p.TimeZone)
}

type RateLimitConfig struct {
	Enabled bool    `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RPS     float64 `env:"RATE_LIMIT_AUTH_RPS" envDefault:"1"`
	Burst   int     `env:"RATE_LIMIT_AUTH_BURST" envDefault:"5"`
}

type CronConfig struct {
	AbsenceSweepEnabled  bool          `env:"CRON_ABSENCE_SWEEP_ENABLED" envDefault:"false"`
	AbsenceSweepInterval time.Duration `env:"CRON_ABSENCE_SWEEP_INTERVAL" envDefault:"1h"`
}

type BootstrapConfig struct {
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// MetricsConfig.Path is relative to /api/v1.
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// LoadEnv loads whichever of the given .env files exist.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func Load() (*Config, error) {
	if _, err := LoadEnv([]string{".env", ".env.local"}); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}
	switch strings.ToLower(c.Storage.Driver) {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("STORAGE_S3_BUCKET is required when STORAGE_DRIVER is s3")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be 'local' or 's3', got '%s'", c.Storage.Driver)
	}
	if c.Policy.LateHour < 0 || c.Policy.LateHour > 23 {
		return fmt.Errorf("POLICY_LATE_HOUR must be between 0 and 23, got %d", c.Policy.LateHour)
	}
	if _, err := time.Parse("15:04", c.Policy.LeaveClockIn); err != nil {
		return fmt.Errorf("invalid POLICY_LEAVE_CLOCK_IN: %w", err)
	}
	if _, err := c.Policy.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Policy.AllowanceRate.IsNegative() || c.Policy.TaxRate.IsNegative() {
		return fmt.Errorf("POLICY_ALLOWANCE_RATE and POLICY_TAX_RATE must not be negative")
	}
	for leaveType, days := range c.Policy.LeaveAllocation {
		if days < 0 {
			return fmt.Errorf("leave allocation for %s must not be negative", leaveType)
		}
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("RATE_LIMIT_AUTH_RPS and RATE_LIMIT_AUTH_BURST must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
