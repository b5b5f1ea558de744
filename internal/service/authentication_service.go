package service

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/ports"
	"dms-web-server/internal/repository"
	"dms-web-server/internal/security"
	"dms-web-server/internal/util"
	"context"
	"errors"
	"fmt"
	"log"
)

type AuthenticationService struct {
	sessionRepository ports.SessionRepositoryInterface
	sessionService    ports.SessionServiceInterface
	userRepository    ports.UserRepository
}

func NewAuthenticationService(
	sessionRepository ports.SessionRepositoryInterface,
	sessionService ports.SessionServiceInterface,
	userRepository ports.UserRepository,
) *AuthenticationService {
	return &AuthenticationService{
		sessionRepository: sessionRepository,
		sessionService:    sessionService,
		userRepository:    userRepository,
	}
}

// Login : проверка логина и пароля, выпуск сессионного токена.
// Неверный логин и неверный пароль неразличимы для клиента.
func (s *AuthenticationService) Login(ctx context.Context, username, password, userAgent, ipAddress string) (string, *model.User, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return "", nil, fmt.Errorf("[AuthService] database connection не найден в context")
	}

	user, err := s.userRepository.FindByUsername(ctx, db, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, fmt.Errorf("[AuthService] неверный логин или пароль")
		}
		return "", nil, util.LogError("[AuthService] ошибка поиска пользователя", err)
	}

	if security.CheckPassword(user.PasswordHash, password) == false {
		return "", nil, fmt.Errorf("[AuthService] неверный логин или пароль")
	}

	if user.IsActive == false {
		return "", nil, fmt.Errorf("[AuthService] учётная запись отключена")
	}

	tokenStr, session, err := s.sessionService.GenerateSessionToken(user)
	if err != nil {
		return "", nil, util.LogError("[AuthService] ошибка генерации токена", err)
	}

	session.UserAgent = userAgent
	session.IpAddress = ipAddress

	if err := s.sessionRepository.SaveSession(ctx, session); err != nil {
		return "", nil, util.LogError("[AuthService] не удалось сохранить сессию", err)
	}

	log.Printf("[AuthService] пользователь %s вошёл в систему", user.Username)

	return tokenStr, user, nil
}

// Logout : отзывает сессию, cookie после этого бесполезна
func (s *AuthenticationService) Logout(ctx context.Context, sessionUUID string) error {
	if err := s.sessionRepository.Revoke(ctx, sessionUUID); err != nil {
		return util.LogError("[AuthService] не удалось завершить сессию", err)
	}
	return nil
}
