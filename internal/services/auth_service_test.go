package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/config"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/database/databasetest"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/dto"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/models"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/repository"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = &config.Config{JWTSecret: "test-secret", JWTAccessExpiry: time.Hour}

func newAuthService(t *testing.T) (*services.AuthService, *repository.UserRepository) {
	t.Helper()
	users := repository.NewUserRepository(databasetest.Open(t))
	return services.NewAuthService(users, testConfig), users
}

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	created, err := svc.EnsureAdmin(ctx, "admin", "admin-password", "Posko Utama")
	require.NoError(t, err)
	assert.True(t, created)

	stored, err := users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, "admin-password", stored.Password)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "admin-password"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Username)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	assert.Equal(t, "Posko Utama", resp.User.Name)
	assert.Equal(t, stored.ID, resp.User.ID)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(testConfig.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, stored.ID.String(), claims["sub"])
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)
	_, err := svc.EnsureAdmin(ctx, "admin", "admin-password", "")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "wrong-password"})
	_, unknownUser := svc.Login(ctx, &dto.LoginRequest{Username: "nonexistent", Password: "anything"})

	require.ErrorIs(t, wrongPassword, services.ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, services.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

type brokenUsers struct{}

func (brokenUsers) GetByUsername(context.Context, string) (*models.User, error) {
	return nil, errors.New("db down")
}
func (brokenUsers) Create(context.Context, *models.User) error { return errors.New("db down") }

func TestLoginStoreFailureIsNotCredentialError(t *testing.T) {
	svc := services.NewAuthService(brokenUsers{}, testConfig)
	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	user, err := svc.Register(ctx, &dto.RegisterRequest{Username: " warga01 ", Password: "rahasia123", Name: "Warga"})
	require.NoError(t, err)
	assert.Equal(t, "warga01", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "warga01", Password: "rahasia123"})
	assert.ErrorIs(t, err, services.ErrUsernameTaken)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "ab", Password: "short"})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("username"))
	assert.True(t, verr.Has("password"))

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "warga01", Password: "rahasia123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, resp.User.Role)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	created, err := svc.EnsureAdmin(ctx, "admin", "first-password", "")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin", "second-password", "")
	require.NoError(t, err)
	assert.False(t, created)

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "first-password"})
	assert.NoError(t, err)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.CreateUser(context.Background(), "root", "password123", "superuser", "")
	assert.Error(t, err)
}

func TestCreateUserValidatesAndTrims(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "ab", "password123", models.RoleAdmin, "")
	requireFields(t, err, "username")

	_, err = svc.CreateUser(ctx, strings.Repeat("x", 51), "short", models.RoleUser, "")
	requireFields(t, err, "username", "password")

	user, err := svc.CreateUser(ctx, "  posko  ", "password123", models.RoleAdmin, "Posko")
	require.NoError(t, err)
	assert.Equal(t, "posko", user.Username)

	stored, err := users.GetByUsername(ctx, "posko")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}
