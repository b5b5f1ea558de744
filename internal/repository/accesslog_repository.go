package repository

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/util"
	"context"
	"github.com/jmoiron/sqlx"
)

// AccessLogRepository : журнал доступа к документам. Путь обновления
// отсутствует намеренно — записи неизменяемы.
type AccessLogRepository struct {
	*config.Database
}

func NewAccessLogRepository(database *config.Database) *AccessLogRepository {
	return &AccessLogRepository{database}
}

// Append : добавляет одну запись журнала. timestamp выставляет БД.
func (r *AccessLogRepository) Append(ctx context.Context, exec sqlx.ExtContext, entry *model.AccessLogEntry) error {
	query := `
		INSERT INTO document_access_log (uuid, document_uuid, user_uuid, action, ip_address)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		entry.UUID,
		entry.DocumentUUID,
		entry.UserUUID,
		entry.Action,
		entry.IPAddress)

	if err != nil {
		return util.LogError("[AccessLogRepo] ошибка записи в журнал доступа", err)
	}
	return nil
}

// ListByDocument : записи журнала по документу, новые сверху
func (r *AccessLogRepository) ListByDocument(ctx context.Context, exec sqlx.ExtContext, documentUUID string) ([]model.AccessLogEntry, error) {
	query := `
		SELECT uuid, document_uuid, user_uuid, action, timestamp, COALESCE(ip_address, '') AS ip_address
		FROM document_access_log
		WHERE document_uuid = $1
		ORDER BY timestamp DESC
	`

	entries := []model.AccessLogEntry{}
	if err := sqlx.SelectContext(ctx, exec, &entries, query, documentUUID); err != nil {
		return nil, util.LogError("[AccessLogRepo] ошибка чтения журнала доступа", err)
	}

	return entries, nil
}
