package repository

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/util"
	"context"
	"database/sql"
	"errors"
)

type SessionRepository struct {
	*config.Database
}

func NewSessionRepository(database *config.Database) *SessionRepository {
	return &SessionRepository{database}
}

// SaveSession сохраняет сессию в базе данных
// Возвращает ошибку, если операция не удалась
func (r *SessionRepository) SaveSession(ctx context.Context, session *model.Session) error {
	query := `INSERT INTO sessions (uuid, user_uuid, expire_at, user_agent, ip_address)
				VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.DB.ExecContext(ctx, query,
		session.UUID,
		session.UserUUID,
		session.ExpireAt,
		session.UserAgent,
		session.IpAddress,
	)

	if err != nil {
		return util.LogError("ошибка вставки данных в БД", err)
	}

	return nil
}

// FindByUUID ищет сессию в базе данных
// Возвращает модель model.Session или ошибку, если сессия не найдена
func (r *SessionRepository) FindByUUID(ctx context.Context, sessionUUID string) (*model.Session, error) {
	query := `SELECT uuid, user_uuid, expire_at, user_agent, ip_address, created_at, revoked_at FROM sessions WHERE uuid = $1`

	session := &model.Session{}

	err := r.DB.QueryRowContext(ctx, query, sessionUUID).Scan(
		&session.UUID,
		&session.UserUUID,
		&session.ExpireAt,
		&session.UserAgent,
		&session.IpAddress,
		&session.CreatedAt,
		&session.RevokedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.LogError("сессия не была найдена", err)
		}
		return nil, util.LogError("ошибка при выполнении запроса", err)
	}

	return session, nil
}

// Revoke помечает сессию отозванной (logout)
// Возвращает ошибку, если не получилось обновить запись
func (r *SessionRepository) Revoke(ctx context.Context, sessionUUID string) error {
	query := `UPDATE sessions SET revoked_at = NOW() WHERE uuid = $1 AND revoked_at IS NULL`

	result, err := r.DB.ExecContext(ctx, query, sessionUUID)
	if err != nil {
		return util.LogError("не удалось отозвать сессию", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("не удалось проверить, отозвана ли сессия", err)
	}
	if rowsAffected == 0 {
		return util.LogError("не удалось найти сессию для отзыва", err)
	}

	return nil
}
