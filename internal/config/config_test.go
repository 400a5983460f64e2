package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "root:@tcp(localhost:3306)/medical_records?charset=utf8mb4&parseTime=True&loc=Local", cfg.Database.DSN)
	assert.Equal(t, "./uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.False(t, cfg.AuthEnabled())
	assert.True(t, cfg.IsDev())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USERNAME", "uma")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "clinic")
	t.Setenv("UPLOAD_DIR", "/var/lib/images")
	t.Setenv("MAX_UPLOAD_MB", "25")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("RATE_LIMIT_RPS", "5")
	t.Setenv("RATE_LIMIT_BURST", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "host=db user=uma password=secret dbname=clinic port=5432 sslmode=disable TimeZone=UTC", cfg.Database.DSN)
	assert.Equal(t, "/var/lib/images", cfg.Upload.Dir)
	assert.Equal(t, int64(25), cfg.Upload.MaxMB)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
}

func TestLoadConfig_ExplicitDSNWins(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file::memory:")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "file::memory:", cfg.Database.DSN)
}

func TestBuildDSN_SQLite(t *testing.T) {
	d := DatabaseConfig{Driver: DriverSQLite, Name: "records"}
	assert.Equal(t, "records.db", d.BuildDSN())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:     "3001",
			Database: DatabaseConfig{Driver: DriverSQLite},
			Upload:   UploadConfig{Dir: "uploads", MaxMB: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, false},
		{"empty port", func(c *Config) { c.Port = "" }, false},
		{"empty upload dir", func(c *Config) { c.Upload.Dir = "" }, false},
		{"zero upload size", func(c *Config) { c.Upload.MaxMB = 0 }, false},
		{"negative rps", func(c *Config) { c.RateLimit.RPS = -1 }, false},
		{"rps without burst", func(c *Config) { c.RateLimit.RPS = 1; c.RateLimit.Burst = 0 }, false},
		{"jwt without expiry", func(c *Config) { c.JWTSecret = "x" }, false},
		{"jwt with expiry", func(c *Config) { c.JWTSecret = "x"; c.JWTExpirationMinutes = 5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
