package repository

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/util"
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("пользователь не найден")

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя
func (r *UserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, username, full_name, password_hash, is_active, is_staff)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING uuid, username, full_name, is_active, is_staff, created_at
	`

	createdUser := &model.User{}
	err := exec.QueryRowxContext(ctx, query,
		user.UUID,
		user.Username,
		user.FullName,
		user.PasswordHash,
		user.IsActive,
		user.IsStaff,
	).Scan(
		&createdUser.UUID,
		&createdUser.Username,
		&createdUser.FullName,
		&createdUser.IsActive,
		&createdUser.IsStaff,
		&createdUser.CreatedAt,
	)

	if err != nil {
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return createdUser, nil
}

// FindByUUID : ищет пользователя по UUID
func (r *UserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	query := `SELECT uuid, username, full_name, password_hash, is_active, is_staff, created_at FROM users WHERE uuid = $1`
	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, uuid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}

// FindByUsername : ищет пользователя по username
func (r *UserRepository) FindByUsername(ctx context.Context, exec sqlx.ExtContext, username string) (*model.User, error) {
	query := `SELECT uuid, username, full_name, password_hash, is_active, is_staff, created_at FROM users WHERE username = $1`
	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по username", err)
	}
	return &user, nil
}

// ExistsByUsername : проверяет, занят ли username
func (r *UserRepository) ExistsByUsername(ctx context.Context, exec sqlx.ExtContext, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	err := sqlx.GetContext(ctx, exec, &exists, query, username)
	if err != nil {
		return false, util.LogError("[UserRepo] ошибка проверки существования пользователя", err)
	}
	return exists, nil
}
