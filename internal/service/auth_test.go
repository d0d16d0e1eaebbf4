package service

import (
	"context"
	"testing"

	"chatroom-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-jwt-secret"

func newAuthService() (*AuthService, *memUserStore) {
	users, _ := newMemStores()
	return NewAuthService(users, testSecret), users
}

func TestRegister(t *testing.T) {
	svc, users := newAuthService()

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@x.com", resp.User.Email)
	assert.Empty(t, resp.User.Chatrooms)

	// Stored credential is a hash, never the plaintext
	stored := users.users[resp.User.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.RegisterRequest
		want error
	}{
		{"short username", model.RegisterRequest{Username: "ab", Email: "a@x.com", Password: "secret1"}, ErrInvalidUsername},
		{"empty username", model.RegisterRequest{Username: "   ", Email: "a@x.com", Password: "secret1"}, ErrInvalidUsername},
		{"bad email", model.RegisterRequest{Username: "alice", Email: "not-an-email", Password: "secret1"}, ErrInvalidEmail},
		{"short password", model.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "12345"}, ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &model.RegisterRequest{Username: "alice", Email: "other@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Register(ctx, &model.RegisterRequest{Username: "alice2", Email: "alice@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &model.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &model.LoginRequest{Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)

	userID, username, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)
	assert.Equal(t, "alice", username)
}

func TestLoginUniformError(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, errUnknown := svc.Login(ctx, &model.LoginRequest{Email: "nobody@x.com", Password: "secret1"})
	_, errWrong := svc.Login(ctx, &model.LoginRequest{Email: "alice@x.com", Password: "wrong-password"})
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrong)
}

func TestEmailNormalized(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{Username: "alice", Email: "  Alice@X.com ", Password: "secret1"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &model.LoginRequest{Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", resp.User.Email)
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	svc, _ := newAuthService()

	_, _, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Token signed with a different secret
	other := NewAuthService(nil, "some-other-secret")
	token, err := other.generateToken("user-1", "mallory")
	require.NoError(t, err)

	_, _, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
