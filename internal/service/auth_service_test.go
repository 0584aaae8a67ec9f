package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpsite/config"
	"corpsite/internal/auth"
	"corpsite/internal/domain"
	"corpsite/internal/repository"
)

func newAuth(env *testEnv) *AuthService {
	cfg := &config.Config{JWT: config.JWTConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "test",
	}}
	return NewAuthService(cfg, repository.NewUserRepository(env.db))
}

func TestAuthService_Login(t *testing.T) {
	env := newEnv(t)
	u := env.user(t, "admin@example.com", domain.RoleAdmin)
	s := newAuth(env)

	sess, err := s.Login(" Admin@Example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)
	assert.NotNil(t, sess.User.LastLoginAt)

	claims, err := auth.ParseAccessToken(&s.cfg.JWT, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	pair, err := s.RefreshToken(sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = s.RefreshToken(sess.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = s.Login("admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)
	_, err = s.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	require.NoError(t, repository.NewUserRepository(env.db).UpdateFields(u.ID, map[string]any{"is_active": false}))
	_, err = s.Login("admin@example.com", "password123")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	env := newEnv(t)
	u := env.user(t, "editor@example.com", domain.RoleEditor)
	s := newAuth(env)

	_, err := s.LoginWithGoogle("g-unknown", "stranger@example.com", "")
	assert.ErrorIs(t, err, ErrForbidden)

	sess, err := s.LoginWithGoogle("g-1", "editor@example.com", "https://img/a.png")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)

	// Linked by Google id even if the email changes later.
	sess, err = s.LoginWithGoogle("g-1", "renamed@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := newEnv(t)
	u := env.user(t, "a@example.com", domain.RoleEditor)
	s := newAuth(env)

	assert.Contains(t, fields(t, s.ChangePassword(u.ID, "password123", "short")), "new_password")
	assert.Contains(t, fields(t, s.ChangePassword(u.ID, "bad", "longenough")), "current_password")
	require.NoError(t, s.ChangePassword(u.ID, "password123", "longenough"))

	_, err := s.Login("a@example.com", "longenough")
	require.NoError(t, err)
}

func TestUserService_ProtectsLastAdmin(t *testing.T) {
	env := newEnv(t)
	s := NewUserService(repository.NewUserRepository(env.db), env.pub)
	admin := env.user(t, "root@example.com", domain.RoleAdmin)
	ctx := WithActor(context.Background(), Actor{UserID: admin.ID})

	assert.Contains(t, fields(t, s.Delete(ctx, admin.ID)), "id")

	other, err := s.Create(ctx, CreateUserInput{Email: "Two@Example.com", Name: "Two", Password: "password123", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "two@example.com", other.Email)

	_, err = s.Create(ctx, CreateUserInput{Email: "two@example.com", Name: "Dup", Password: "password123", Role: domain.RoleEditor})
	assert.Contains(t, fields(t, err), "email")

	// Two admins: demoting one is allowed, the remaining one is then protected.
	_, err = s.Update(ctx, other.ID, UpdateUserInput{Role: ptr(domain.RoleEditor)})
	require.NoError(t, err)

	otherCtx := WithActor(context.Background(), Actor{UserID: other.ID})
	_, err = s.Update(otherCtx, admin.ID, UpdateUserInput{IsActive: ptr(false)})
	assert.Contains(t, fields(t, err), "role")
	assert.Contains(t, fields(t, s.Delete(otherCtx, admin.ID)), "role")

	_, err = s.Update(ctx, admin.ID, UpdateUserInput{IsActive: ptr(false)})
	assert.Contains(t, fields(t, err), "is_active")

	require.NoError(t, s.Delete(ctx, other.ID))
	page, err := s.List("", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}
