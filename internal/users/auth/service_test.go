// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelfmark/internal/platform/apperr"
	"github.com/taibuivan/shelfmark/internal/platform/sec"
	"github.com/taibuivan/shelfmark/internal/users/auth"
)

// # Test Fixtures

type fakeUserRepository struct {
	users map[string]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*auth.User)}
}

func (repository *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	clone := *user
	repository.users[user.ID] = &clone
	return nil
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

type fakeSessionRepository struct {
	sessions map[string]*auth.Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: make(map[string]*auth.Session)}
}

func (repository *fakeSessionRepository) Create(_ context.Context, session *auth.Session) error {
	clone := *session
	repository.sessions[session.ID] = &clone
	return nil
}

func (repository *fakeSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	for _, session := range repository.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			clone := *session
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (repository *fakeSessionRepository) Revoke(_ context.Context, sessionID string) error {
	if session, ok := repository.sessions[sessionID]; ok {
		session.IsRevoked = true
	}
	return nil
}

func (repository *fakeSessionRepository) liveCount() int {
	count := 0
	for _, session := range repository.sessions {
		if !session.IsRevoked {
			count++
		}
	}
	return count
}

// fakeTokenProvider issues predictable token strings.
type fakeTokenProvider struct {
	issued int
}

func (provider *fakeTokenProvider) GenerateAccessToken(userID, username, role string, _ time.Duration) (string, error) {
	provider.issued++
	return fmt.Sprintf("token-%s-%d", username, provider.issued), nil
}

func newTestService() (*auth.Service, *fakeUserRepository, *fakeSessionRepository) {
	users := newFakeUserRepository()
	sessions := newFakeSessionRepository()
	service := auth.NewService(users, sessions, &fakeTokenProvider{})
	return service, users, sessions
}

func register(t *testing.T, service *auth.Service) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username:    "reader",
		Email:       "reader@example.com",
		Password:    "correct horse battery",
		DisplayName: "Avid Reader",
	})
	require.NoError(t, err)
	return user
}

// # Registration Tests

/*
TestService_Register verifies account creation, hashing, and identity
conflict detection.
*/
func TestService_Register(t *testing.T) {
	service, users, _ := newTestService()

	user := register(t, service)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleMember, user.Role)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct horse battery", user.PasswordHash))

	t.Run("duplicate_email", func(t *testing.T) {
		_, err := service.Register(context.Background(), auth.RegisterInput{
			Username: "other",
			Email:    "reader@example.com",
			Password: "irrelevant-pass",
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
	})

	t.Run("duplicate_username", func(t *testing.T) {
		_, err := service.Register(context.Background(), auth.RegisterInput{
			Username: "reader",
			Email:    "unique@example.com",
			Password: "irrelevant-pass",
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
	})

	assert.Len(t, users.users, 1)
}

// # Authentication Tests

/*
TestService_Login verifies credential checks and session issuance by both
username and email.
*/
func TestService_Login(t *testing.T) {
	service, _, sessions := newTestService()
	register(t, service)

	t.Run("by_username", func(t *testing.T) {
		session, err := service.Login(context.Background(), auth.LoginInput{
			Login:    "reader",
			Password: "correct horse battery",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
		assert.True(t, session.RefreshTokenExpiresAt.After(time.Now()))
	})

	t.Run("by_email", func(t *testing.T) {
		_, err := service.Login(context.Background(), auth.LoginInput{
			Login:    "reader@example.com",
			Password: "correct horse battery",
		})
		require.NoError(t, err)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := service.Login(context.Background(), auth.LoginInput{
			Login:    "reader",
			Password: "wrong",
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "UNAUTHORIZED", appError.Code)
	})

	t.Run("unknown_account", func(t *testing.T) {
		_, err := service.Login(context.Background(), auth.LoginInput{
			Login:    "nobody",
			Password: "correct horse battery",
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "UNAUTHORIZED", appError.Code)
	})

	assert.Equal(t, 2, sessions.liveCount())
}

// # Session Rotation Tests

/*
TestService_RefreshSession verifies token rotation: the old refresh token is
revoked and cannot be replayed.
*/
func TestService_RefreshSession(t *testing.T) {
	service, _, sessions := newTestService()
	register(t, service)

	login, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "reader",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	rotated, err := service.RefreshSession(context.Background(), login.RefreshToken, "ua", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, 1, sessions.liveCount())

	t.Run("replay_rejected", func(t *testing.T) {
		_, err := service.RefreshSession(context.Background(), login.RefreshToken, "ua", "127.0.0.1")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "UNAUTHORIZED", appError.Code)
	})

	t.Run("garbage_token_rejected", func(t *testing.T) {
		_, err := service.RefreshSession(context.Background(), "not-a-token", "ua", "127.0.0.1")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "UNAUTHORIZED", appError.Code)
	})
}

/*
TestService_Logout verifies revocation and idempotency.
*/
func TestService_Logout(t *testing.T) {
	service, _, sessions := newTestService()
	register(t, service)

	login, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "reader",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.Equal(t, 1, sessions.liveCount())

	require.NoError(t, service.Logout(context.Background(), login.RefreshToken))
	assert.Zero(t, sessions.liveCount())

	// A second logout with the same token is a no-op, not an error.
	require.NoError(t, service.Logout(context.Background(), login.RefreshToken))

	// The revoked token can no longer refresh.
	_, err = service.RefreshSession(context.Background(), login.RefreshToken, "ua", "127.0.0.1")
	assert.Error(t, err)
}
