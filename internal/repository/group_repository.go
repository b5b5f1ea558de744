package repository

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/util"
	"context"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GroupRepository : группы прав и членство пользователей в них.
// Права лежат в таблице permissions, связи — в group_permissions и
// user_groups.
type GroupRepository struct {
	*config.Database
}

func NewGroupRepository(database *config.Database) *GroupRepository {
	return &GroupRepository{database}
}

// EnsureGroup : возвращает группу по имени, создавая её при отсутствии.
// Повторный вызов с тем же именем отдаёт уже существующую запись.
func (r *GroupRepository) EnsureGroup(ctx context.Context, exec sqlx.ExtContext, name string) (*model.Group, error) {
	query := `
		INSERT INTO groups (uuid, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING uuid, name, created_at
	`

	var group model.Group
	err := sqlx.GetContext(ctx, exec, &group, query, uuid.New().String(), name)
	if err != nil {
		return nil, util.LogError("[GroupRepo] не удалось создать группу", err)
	}

	return &group, nil
}

// SetPermissions : заменяет набор прав группы на переданный
func (r *GroupRepository) SetPermissions(ctx context.Context, exec sqlx.ExtContext, groupUUID string, permissions []string) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM group_permissions WHERE group_uuid = $1`, groupUUID); err != nil {
		return util.LogError("[GroupRepo] не удалось очистить права группы", err)
	}

	query := `
		INSERT INTO group_permissions (group_uuid, permission_code)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	for _, code := range permissions {
		if _, err := exec.ExecContext(ctx, query, groupUUID, code); err != nil {
			return util.LogError("[GroupRepo] не удалось выдать право группе", err)
		}
	}

	return nil
}

// AddUserToGroup : добавляет пользователя в группу, повторное добавление
// не является ошибкой
func (r *GroupRepository) AddUserToGroup(ctx context.Context, exec sqlx.ExtContext, userUUID, groupUUID string) error {
	query := `
		INSERT INTO user_groups (user_uuid, group_uuid)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := exec.ExecContext(ctx, query, userUUID, groupUUID); err != nil {
		return util.LogError("[GroupRepo] не удалось добавить пользователя в группу", err)
	}
	return nil
}

// PermissionsForUser : все права пользователя через его группы
func (r *GroupRepository) PermissionsForUser(ctx context.Context, exec sqlx.ExtContext, userUUID string) ([]string, error) {
	query := `
		SELECT DISTINCT gp.permission_code
		FROM user_groups AS ug
		JOIN group_permissions AS gp ON gp.group_uuid = ug.group_uuid
		WHERE ug.user_uuid = $1
		ORDER BY gp.permission_code
	`

	permissions := []string{}
	if err := sqlx.SelectContext(ctx, exec, &permissions, query, userUUID); err != nil {
		return nil, util.LogError("[GroupRepo] не удалось получить права пользователя", err)
	}

	return permissions, nil
}
