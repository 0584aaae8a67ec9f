package database_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"corpsite/config"
	"corpsite/internal/database"
	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/testutil"
)

func TestNewDB_UnsupportedDriver(t *testing.T) {
	_, err := database.NewDB(&config.DatabaseConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := &config.AdminSeedConfig{Email: "admin@example.com", Password: "secret123"}

	require.NoError(t, database.SeedAdmin(db, cfg))
	require.NoError(t, database.SeedAdmin(db, cfg))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.Equal(t, "Administrator", users[0].Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("secret123")))
}

func TestSeedAdmin_SkipsWithoutCredentials(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, database.SeedAdmin(db, &config.AdminSeedConfig{}))

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestSeedSettings_KeepsExistingValues(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.SystemSetting{Key: domain.SettingSiteName, Value: "Acme"}).Error)

	require.NoError(t, database.SeedSettings(db))
	require.NoError(t, database.SeedSettings(db))

	var s models.SystemSetting
	require.NoError(t, db.Where("`key` = ?", domain.SettingSiteName).First(&s).Error)
	assert.Equal(t, "Acme", s.Value)

	var count int64
	db.Model(&models.SystemSetting{}).Count(&count)
	assert.Equal(t, int64(len(domain.DefaultSettings)), count)
}

func TestNewDB_LogsFailuresButNotMisses(t *testing.T) {
	db, err := database.NewDB(&config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "log.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	err = db.WithContext(ctx).First(&models.User{}, 42).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	err = db.WithContext(ctx).Exec("SELECT * FROM no_such_table").Error
	assert.Error(t, err)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "no_such_table")
}
