package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokedex/pokedex-go/internal/crypto"
	"github.com/pokedex/pokedex-go/internal/model"
)

const testSecret = "test-secret"

func newTestAuthService() *AuthService {
	return NewAuthService(newMemUserStore(), testSecret, time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, model.RegisterRequest{
		Username: "Ash",
		Email:    "ash@x.com",
		Password: "pw123",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ash", registered.User.Username)
	assert.Equal(t, "ash@x.com", registered.User.Email)
	assert.Equal(t, model.RoleUser, registered.User.Role)
	require.NotEmpty(t, registered.Token)

	claims, err := crypto.ValidateToken(registered.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	loggedIn, err := svc.Login(ctx, model.LoginRequest{Username: "Ash", Password: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	claims, err = crypto.ValidateToken(loggedIn.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
}

func TestRegisterTrimsUsername(t *testing.T) {
	svc := newTestAuthService()

	resp, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "  Ash  ",
		Password: "pw123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ash", resp.User.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{Username: "Ash", Password: "pw123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, model.RegisterRequest{Username: "Ash", Password: "other"})
	assert.ErrorIs(t, err, ErrAccountTaken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{
		Username: "Ash",
		Email:    "ash@x.com",
		Password: "pw123",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, model.RegisterRequest{
		Username: "NotAsh",
		Email:    "ash@x.com",
		Password: "pw123",
	})
	assert.ErrorIs(t, err, ErrAccountTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{Username: "", Password: "pw123"})
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.Register(ctx, model.RegisterRequest{Username: "   ", Password: "pw123"})
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.Register(ctx, model.RegisterRequest{Username: "Ash", Password: ""})
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login(context.Background(), model.LoginRequest{Username: "Nobody", Password: "pw"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{Username: "Ash", Password: "pw123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "Ash", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestGetUser(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, model.RegisterRequest{Username: "Ash", Password: "pw123"})
	require.NoError(t, err)

	user, err := svc.GetUser(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ash", user.Username)

	_, err = svc.GetUser(ctx, registered.User.ID+1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
