package service_test

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/repository"
	"dms-web-server/internal/security"
	"dms-web-server/internal/service"
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	args := m.Called(ctx, exec, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	args := m.Called(ctx, exec, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, exec sqlx.ExtContext, username string) (*model.User, error) {
	args := m.Called(ctx, exec, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, exec sqlx.ExtContext, username string) (bool, error) {
	args := m.Called(ctx, exec, username)
	return args.Bool(0), args.Error(1)
}

type MockSessionRepository struct{ mock.Mock }

func (m *MockSessionRepository) SaveSession(ctx context.Context, session *model.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepository) FindByUUID(ctx context.Context, uuid string) (*model.Session, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionRepository) Revoke(ctx context.Context, uuid string) error {
	return m.Called(ctx, uuid).Error(0)
}

type MockSessionService struct{ mock.Mock }

func (m *MockSessionService) GenerateSessionToken(user *model.User) (string, *model.Session, error) {
	args := m.Called(user)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.Session), args.Error(2)
}

func (m *MockSessionService) ValidateToken(tokenStr string, secret []byte) (*security.Claims, error) {
	args := m.Called(tokenStr, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.Claims), args.Error(1)
}

func newTestAuthenticationService() (*service.AuthenticationService, *MockSessionRepository, *MockSessionService, *MockUserRepository) {
	mockSessionRepo := new(MockSessionRepository)
	mockSessionService := new(MockSessionService)
	mockUserRepo := new(MockUserRepository)

	svc := service.NewAuthenticationService(mockSessionRepo, mockSessionService, mockUserRepo)

	return svc, mockSessionRepo, mockSessionService, mockUserRepo
}

func activeUser(t *testing.T, username, password string) *model.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	return &model.User{
		UUID:         "user1",
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
	}
}

func TestLogin_Success(t *testing.T) {
	svc, mockSessionRepo, mockSessionService, mockUserRepo := newTestAuthenticationService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	user := activeUser(t, "employee1", "emp123")
	session := &model.Session{UUID: "sess1", UserUUID: user.UUID}

	mockUserRepo.On("FindByUsername", ctx, mock.Anything, "employee1").Return(user, nil)
	mockSessionService.On("GenerateSessionToken", user).Return("token-str", session, nil)
	mockSessionRepo.On("SaveSession", ctx, mock.MatchedBy(func(s *model.Session) bool {
		return s.UserAgent == "test-agent" && s.IpAddress == "10.0.0.1"
	})).Return(nil)

	tokenStr, resultUser, err := svc.Login(ctx, "employee1", "emp123", "test-agent", "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, "token-str", tokenStr)
	assert.Equal(t, "employee1", resultUser.Username)
	mockSessionRepo.AssertExpectations(t)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _, _, mockUserRepo := newTestAuthenticationService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	mockUserRepo.On("FindByUsername", ctx, mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)

	_, _, err := svc.Login(ctx, "ghost", "pass", "ua", "10.0.0.1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "неверный логин или пароль")
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mockSessionRepo, _, mockUserRepo := newTestAuthenticationService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	user := activeUser(t, "employee1", "emp123")

	mockUserRepo.On("FindByUsername", ctx, mock.Anything, "employee1").Return(user, nil)

	_, _, err := svc.Login(ctx, "employee1", "wrong", "ua", "10.0.0.1")

	assert.Error(t, err)
	// сообщение не отличается от случая несуществующего пользователя
	assert.Contains(t, err.Error(), "неверный логин или пароль")
	mockSessionRepo.AssertNotCalled(t, "SaveSession", mock.Anything, mock.Anything)
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, _, _, mockUserRepo := newTestAuthenticationService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	user := activeUser(t, "employee1", "emp123")
	user.IsActive = false

	mockUserRepo.On("FindByUsername", ctx, mock.Anything, "employee1").Return(user, nil)

	_, _, err := svc.Login(ctx, "employee1", "emp123", "ua", "10.0.0.1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "учётная запись отключена")
}

func TestLogin_RepositoryError(t *testing.T) {
	svc, _, _, mockUserRepo := newTestAuthenticationService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	mockUserRepo.On("FindByUsername", ctx, mock.Anything, "employee1").Return(nil, errors.New("db down"))

	_, _, err := svc.Login(ctx, "employee1", "emp123", "ua", "10.0.0.1")

	assert.Error(t, err)
	assert.NotContains(t, err.Error(), "неверный логин или пароль")
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, mockSessionRepo, _, _ := newTestAuthenticationService()
	ctx := context.Background()

	mockSessionRepo.On("Revoke", ctx, "sess1").Return(nil)

	err := svc.Logout(ctx, "sess1")

	assert.NoError(t, err)
	mockSessionRepo.AssertExpectations(t)
}

func TestLogout_Error(t *testing.T) {
	svc, mockSessionRepo, _, _ := newTestAuthenticationService()
	ctx := context.Background()

	mockSessionRepo.On("Revoke", ctx, "sess1").Return(errors.New("сессия не найдена"))

	err := svc.Logout(ctx, "sess1")

	assert.Error(t, err)
}
