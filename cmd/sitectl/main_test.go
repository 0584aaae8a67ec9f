package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpsite/config"
	"corpsite/internal/database"
	"corpsite/internal/models"
)

func sqliteEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.db")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", path)
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateAndCreateAdmin(t *testing.T) {
	path := sqliteEnv(t)

	out, err := execute(t, "migrate")
	require.NoError(t, err, out)
	assert.Contains(t, out, "schema up to date")

	out, err = execute(t, "create-admin", "--email", "Ops@Example.com", "--password", "long-enough-pw", "--role", "editor")
	require.NoError(t, err, out)
	assert.Contains(t, out, "created EDITOR ops@example.com")

	_, err = execute(t, "create-admin", "--email", "ops@example.com", "--password", "long-enough-pw")
	assert.Error(t, err, "duplicate email")

	_, err = execute(t, "create-admin", "--email", "short@example.com", "--password", "short")
	assert.Error(t, err, "password too short")

	db, err := database.NewDB(&config.DatabaseConfig{Driver: "sqlite", DSN: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "EDITOR", users[0].Role)
	assert.NotEqual(t, "long-enough-pw", users[0].PasswordHash)

	var settings int64
	require.NoError(t, db.Model(&models.SystemSetting{}).Count(&settings).Error)
	assert.Positive(t, settings)
}

func TestCreateAdminRequiresEmail(t *testing.T) {
	sqliteEnv(t)
	_, err := execute(t, "create-admin", "--password", "long-enough-pw")
	assert.ErrorContains(t, err, `required flag(s) "email" not set`)
}

func TestRevalidate(t *testing.T) {
	sqliteEnv(t)

	_, err := execute(t, "revalidate", "nonsense")
	assert.ErrorContains(t, err, `unknown tag "nonsense"`)

	out, err := execute(t, "revalidate")
	require.NoError(t, err, out)
	assert.Contains(t, out, "revalidated all")

	out, err = execute(t, "revalidate", "blogs", "home")
	require.NoError(t, err, out)
	assert.Contains(t, out, "revalidated blogs home")
}
