// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package auth

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapipeline/pro-api/internal/platform/apperr"
	"github.com/datapipeline/pro-api/internal/platform/sec"
)

// memoryUserRepository is an in-memory UserRepository for service tests.
type memoryUserRepository struct {
	nextID int64
	users  map[int64]*User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{nextID: 1, users: make(map[int64]*User)}
}

func (r *memoryUserRepository) FindByID(_ context.Context, id int64) (*User, error) {
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found with this email")
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found with this username")
}

func (r *memoryUserRepository) Create(_ context.Context, user *User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
		if existing.Username == user.Username {
			return apperr.Conflict("Username is already taken")
		}
	}

	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepository) UpdatePassword(_ context.Context, userID int64, newHash string) error {
	if user, ok := r.users[userID]; ok {
		user.PasswordHash = newHash
		user.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memoryUserRepository) SetActive(_ context.Context, userID int64, active bool) error {
	if user, ok := r.users[userID]; ok {
		user.IsActive = active
		user.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memoryUserRepository) Count(_ context.Context) (int, error) {
	return len(r.users), nil
}

func (r *memoryUserRepository) List(_ context.Context, limit, offset int) ([]*User, error) {
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users := make([]*User, 0, limit)
	for index, id := range ids {
		if index < offset {
			continue
		}
		if len(users) == limit {
			break
		}
		copied := *r.users[id]
		users = append(users, &copied)
	}
	return users, nil
}

// # Test Fixtures

const (
	testEmail    = "alice@example.com"
	testUsername = "alice42"
	testPassword = "Sup3rSecret"
)

func newTestService() (*Service, *memoryUserRepository) {
	repository := newMemoryUserRepository()
	hasher := sec.NewHasher(4)
	tokens := sec.NewTokenService("0123456789abcdef0123456789abcdef", "test", 30*time.Minute, 7*24*time.Hour)
	return NewService(repository, hasher, tokens), repository
}

func register(t *testing.T, service *Service) *User {
	t.Helper()

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    testEmail,
		Username: testUsername,
		Password: testPassword,
	})
	require.NoError(t, err)
	return user
}

// # Registration

func TestRegister(t *testing.T) {
	service, _ := newTestService()
	user := register(t, service)

	assert.NotZero(t, user.ID)
	assert.Equal(t, testEmail, user.Email)
	assert.True(t, user.IsActive, "new accounts start active")
	assert.False(t, user.IsSuperuser, "new accounts never start privileged")
	assert.NotEqual(t, testPassword, user.PasswordHash, "password must be hashed")
}

func TestRegister_DuplicateIdentity(t *testing.T) {
	service, _ := newTestService()
	register(t, service)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := service.Register(context.Background(), RegisterInput{
			Email:    testEmail,
			Username: "someoneelse",
			Password: testPassword,
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := service.Register(context.Background(), RegisterInput{
			Email:    "other@example.com",
			Username: testUsername,
			Password: testPassword,
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
	})
}

// # Login

func TestLogin(t *testing.T) {
	service, _ := newTestService()
	register(t, service)

	pair, err := service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, BearerTokenType, pair.TokenType)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	service, repository := newTestService()
	user := register(t, service)

	_, unknownEmailErr := service.Login(context.Background(), "nobody@example.com", testPassword)
	_, wrongPasswordErr := service.Login(context.Background(), testEmail, "WrongPass1")

	require.NoError(t, repository.SetActive(context.Background(), user.ID, false))
	_, inactiveErr := service.Login(context.Background(), testEmail, testPassword)

	// All three failure modes must produce byte-identical errors so the
	// response cannot be used to enumerate accounts.
	require.Error(t, unknownEmailErr)
	assert.Equal(t, unknownEmailErr.Error(), wrongPasswordErr.Error())
	assert.Equal(t, unknownEmailErr.Error(), inactiveErr.Error())

	appError := apperr.As(unknownEmailErr)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)
}

// # Token Refresh

func TestRefresh_RotatesBothTokens(t *testing.T) {
	service, _ := newTestService()
	register(t, service)

	original, err := service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	rotated, err := service.Refresh(context.Background(), original.RefreshToken)
	require.NoError(t, err)

	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)
	assert.Equal(t, BearerTokenType, rotated.TokenType)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	service, _ := newTestService()
	register(t, service)

	pair, err := service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	_, err = service.Refresh(context.Background(), pair.AccessToken)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)
}

func TestRefresh_UnknownSubject(t *testing.T) {
	service, _ := newTestService()
	tokens := sec.NewTokenService("0123456789abcdef0123456789abcdef", "test", 30*time.Minute, 7*24*time.Hour)

	refreshToken, err := tokens.IssueRefresh("ghost@example.com")
	require.NoError(t, err)

	_, err = service.Refresh(context.Background(), refreshToken)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

func TestRefresh_InactiveAccount(t *testing.T) {
	service, repository := newTestService()
	user := register(t, service)

	pair, err := service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	require.NoError(t, repository.SetActive(context.Background(), user.ID, false))

	_, err = service.Refresh(context.Background(), pair.RefreshToken)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)
}

// # Password Change

func TestChangePassword(t *testing.T) {
	service, _ := newTestService()
	register(t, service)

	const newPassword = "Fresh3rSecret"

	t.Run("wrong current password", func(t *testing.T) {
		err := service.ChangePassword(context.Background(), testEmail, "NotTheCurrent1", newPassword)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})

	t.Run("new equals current", func(t *testing.T) {
		err := service.ChangePassword(context.Background(), testEmail, testPassword, testPassword)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 422, appError.HTTPStatus)
	})

	t.Run("success rotates the credential", func(t *testing.T) {
		err := service.ChangePassword(context.Background(), testEmail, testPassword, newPassword)
		require.NoError(t, err)

		// Old credential is dead, new one works.
		_, err = service.Login(context.Background(), testEmail, testPassword)
		assert.Error(t, err)

		_, err = service.Login(context.Background(), testEmail, newPassword)
		assert.NoError(t, err)
	})
}

// # Deactivation

func TestDeactivate_Idempotent(t *testing.T) {
	service, _ := newTestService()
	register(t, service)

	require.NoError(t, service.Deactivate(context.Background(), testEmail))
	require.NoError(t, service.Deactivate(context.Background(), testEmail), "second deactivation must succeed")

	// CurrentUser refuses inactive accounts even with valid claims.
	_, err := service.CurrentUser(context.Background(), testEmail)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)
}

// # Full Lifecycle

func TestAccountLifecycle(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	register(t, service)

	pair, err := service.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	user, err := service.CurrentUser(ctx, testEmail)
	require.NoError(t, err)
	assert.Equal(t, testEmail, user.Email)

	rotated, err := service.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	require.NoError(t, service.ChangePassword(ctx, testEmail, testPassword, "Brand0NewSecret"))

	require.NoError(t, service.Deactivate(ctx, testEmail))

	_, err = service.Login(ctx, testEmail, "Brand0NewSecret")
	assert.Error(t, err, "deactivated account cannot log in")
}
