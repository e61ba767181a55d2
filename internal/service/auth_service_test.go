package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-task-manager/internal/model"
	"go-task-manager/internal/repository"
)

func newTestAuthService(t *testing.T, users repository.UserDirectory) *AuthService {
	t.Helper()

	hasher := newTestHasher(t)
	tokens, err := NewTokenService("test-secret")
	require.NoError(t, err)

	svc, err := NewAuthService(users, hasher, tokens, 15*time.Minute)
	require.NoError(t, err)
	return svc
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates user and returns principal without hash", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)

		users.On("Create", mock.Anything, "alice", mock.MatchedBy(func(hash string) bool {
			return hash != "" && hash != "Secret123!"
		})).Return(model.User{ID: 1, Username: "alice", Active: true, PasswordHash: "x"}, nil)

		principal, err := svc.Register(context.Background(), " alice ", "Secret123!")
		require.NoError(t, err)
		assert.Equal(t, model.Principal{ID: 1, Username: "alice"}, principal)
		users.AssertExpectations(t)
	})

	t.Run("rejects out-of-range usernames", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)

		_, err := svc.Register(context.Background(), "ab", "Secret123!")
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = svc.Register(context.Background(), strings.Repeat("a", 51), "Secret123!")
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)

		_, err := svc.Register(context.Background(), "alice", "1234567")
		assert.ErrorIs(t, err, model.ErrWeakPassword)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate username surfaces as conflict", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)

		users.On("Create", mock.Anything, "alice", mock.Anything).
			Return(model.User{}, model.ErrDuplicateUsername)

		_, err := svc.Register(context.Background(), "alice", "Secret123!")
		assert.ErrorIs(t, err, model.ErrDuplicateUsername)
	})
}

func TestAuthService_Login(t *testing.T) {
	makeUser := func(t *testing.T, svc *AuthService, active bool) model.User {
		t.Helper()
		hash, err := svc.hasher.Hash("Secret123!")
		require.NoError(t, err)
		return model.User{ID: 7, Username: "alice", PasswordHash: hash, Active: active}
	}

	t.Run("issues a verifiable token for correct credentials", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)
		users.On("FindByUsername", mock.Anything, "alice").Return(makeUser(t, svc, true), nil)

		result, err := svc.Login(context.Background(), "alice", "Secret123!")
		require.NoError(t, err)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, int64((15 * time.Minute).Seconds()), result.ExpiresIn)
		assert.Equal(t, model.Principal{ID: 7, Username: "alice"}, result.User)

		claims, err := svc.tokens.Verify(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)
		users.On("FindByUsername", mock.Anything, "alice").Return(makeUser(t, svc, true), nil)

		_, err := svc.Login(context.Background(), "alice", "wrong-password")
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("unknown username", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)
		users.On("FindByUsername", mock.Anything, "ghost").Return(model.User{}, model.ErrUserNotFound)

		_, err := svc.Login(context.Background(), "ghost", "Secret123!")
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("inactive account", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)
		users.On("FindByUsername", mock.Anything, "alice").Return(makeUser(t, svc, false), nil)

		_, err := svc.Login(context.Background(), "alice", "Secret123!")
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})
}

func TestAuthService_Resolve(t *testing.T) {
	issue := func(t *testing.T, svc *AuthService, ttl time.Duration) string {
		t.Helper()
		token, _, err := svc.tokens.Issue(7, "alice", ttl)
		require.NoError(t, err)
		return "Bearer " + token
	}

	activeUser := model.User{ID: 7, Username: "alice", PasswordHash: "x", Active: true}

	t.Run("valid bearer resolves to principal", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)
		users.On("FindByID", mock.Anything, int64(7)).Return(activeUser, nil)

		principal, err := svc.Resolve(context.Background(), issue(t, svc, time.Minute))
		require.NoError(t, err)
		assert.Equal(t, model.Principal{ID: 7, Username: "alice"}, principal)
	})

	t.Run("missing bearer prefix", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)

		_, err := svc.Resolve(context.Background(), "Token abc")
		assert.ErrorIs(t, err, model.ErrUnauthenticated)

		_, err = svc.Resolve(context.Background(), "")
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("expired token", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)

		_, err := svc.Resolve(context.Background(), issue(t, svc, -time.Second))
		assert.ErrorIs(t, err, model.ErrTokenExpired)
		users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)
		users.On("FindByID", mock.Anything, int64(7)).Return(model.User{}, model.ErrUserNotFound)

		_, err := svc.Resolve(context.Background(), issue(t, svc, time.Minute))
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("token for a deactivated user", func(t *testing.T) {
		users := new(repository.MockUserDirectory)
		svc := newTestAuthService(t, users)
		inactive := activeUser
		inactive.Active = false
		users.On("FindByID", mock.Anything, int64(7)).Return(inactive, nil)

		_, err := svc.Resolve(context.Background(), issue(t, svc, time.Minute))
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})
}

func TestAuthService_Deactivate(t *testing.T) {
	users := new(repository.MockUserDirectory)
	svc := newTestAuthService(t, users)
	users.On("SetActive", mock.Anything, int64(7), false).Return(nil)

	require.NoError(t, svc.Deactivate(context.Background(), 7))
	users.AssertExpectations(t)
}
