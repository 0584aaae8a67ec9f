package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
	assert.False(t, cfg.Cloudinary.Enabled())
	assert.False(t, cfg.Mail.Enabled())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
server:
  port: "9000"
  env: test
database:
  driver: sqlite
  dsn: "file::memory:"
redis:
  page_ttl: 90s
mail:
  host: smtp.example.com
  from: site@example.com
  admin_recipients: [ops@example.com]
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("MAIL_ADMIN_RECIPIENTS", "a@example.com, b@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 90*time.Second, cfg.Redis.PageTTL)
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Mail.AdminRecipients)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"production with default secrets", func(c *Config) { c.Server.Env = "production" }, true},
		{"production with secrets", func(c *Config) {
			c.Server.Env = "production"
			c.JWT.AccessSecret = "a"
			c.JWT.RefreshSecret = "b"
		}, false},
		{"bad admin recipient", func(c *Config) { c.Mail.AdminRecipients = []string{"nope"} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
