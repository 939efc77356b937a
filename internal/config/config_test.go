package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseWith(t *testing.T, vars map[string]string) *Config {
	t.Helper()
	vars["DB_PASSWORD"] = "secret"
	vars["JWT_SECRET_KEY"] = "jwt-secret"
	for k, v := range vars {
		t.Setenv(k, v)
	}
	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))
	return cfg
}

func TestParseDefaults(t *testing.T) {
	cfg := parseWith(t, map[string]string{})
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSOrigins)
	assert.Equal(t, 20, cfg.Policy.LeaveAllocation["ANNUAL"])
	assert.Equal(t, 90, cfg.Policy.LeaveAllocation["MATERNITY"])
	assert.Equal(t, "0.1", cfg.Policy.AllowanceRate.String())
	assert.Equal(t, "0.15", cfg.Policy.TaxRate.String())
	assert.Equal(t, 9, cfg.Policy.LateHour)
	assert.Equal(t, int64(10485760), cfg.Storage.MaxUploadSize)
	assert.Contains(t, cfg.Storage.AllowedFileExts, ".pdf")
	assert.False(t, cfg.Cron.AbsenceSweepEnabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.MaxConnIdleTime)
}

func TestParsePolicyOverrides(t *testing.T) {
	cfg := parseWith(t, map[string]string{
		"POLICY_LEAVE_ALLOCATION": "ANNUAL:12,SICK:6",
		"POLICY_TAX_RATE":         "0.05",
		"APP_TIMEZONE":            "Asia/Jakarta",
	})
	require.NoError(t, cfg.Validate())

	assert.Equal(t, map[string]int{"ANNUAL": 12, "SICK": 6}, cfg.Policy.LeaveAllocation)
	assert.Equal(t, "0.05", cfg.Policy.TaxRate.String())
	loc, err := cfg.Policy.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{"bad access ttl", map[string]string{"JWT_ACCESS_EXPIRATION_TIME": "soon"}, "JWT_ACCESS_EXPIRATION_TIME"},
		{"unknown storage driver", map[string]string{"STORAGE_DRIVER": "ftp"}, "STORAGE_DRIVER"},
		{"s3 without bucket", map[string]string{"STORAGE_DRIVER": "s3"}, "STORAGE_S3_BUCKET"},
		{"late hour out of range", map[string]string{"POLICY_LATE_HOUR": "24"}, "POLICY_LATE_HOUR"},
		{"bad leave clock in", map[string]string{"POLICY_LEAVE_CLOCK_IN": "9am"}, "POLICY_LEAVE_CLOCK_IN"},
		{"unknown time zone", map[string]string{"APP_TIMEZONE": "Mars/Olympus"}, "APP_TIMEZONE"},
		{"negative tax", map[string]string{"POLICY_TAX_RATE": "-0.1"}, "POLICY_TAX_RATE"},
		{"zero burst", map[string]string{"RATE_LIMIT_AUTH_BURST": "0"}, "RATE_LIMIT_AUTH_BURST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := parseWith(t, tt.vars)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_RequiresSecrets(t *testing.T) {
	cfg := parseWith(t, map[string]string{})
	cfg.Database.Password = ""
	assert.ErrorContains(t, cfg.Validate(), "DB_PASSWORD")

	cfg = parseWith(t, map[string]string{})
	cfg.JWT.Secret = ""
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET_KEY")
}

func TestDatabaseURL(t *testing.T) {
	cfg := parseWith(t, map[string]string{"DB_HOST": "db", "DB_NAME": "ems_test"})
	assert.Equal(t, "postgres://postgres:secret@db:5432/ems_test?sslmode=disable", cfg.DatabaseURL())
}
