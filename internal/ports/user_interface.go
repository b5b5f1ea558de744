package ports

import (
	"dms-web-server/internal/model"
	"context"
	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error)
	FindByUsername(ctx context.Context, exec sqlx.ExtContext, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, exec sqlx.ExtContext, username string) (bool, error)
}

// GroupRepository : группы, их права и членство пользователей
type GroupRepository interface {
	EnsureGroup(ctx context.Context, exec sqlx.ExtContext, name string) (*model.Group, error)
	SetPermissions(ctx context.Context, exec sqlx.ExtContext, groupUUID string, permissions []string) error
	AddUserToGroup(ctx context.Context, exec sqlx.ExtContext, userUUID, groupUUID string) error
	PermissionsForUser(ctx context.Context, exec sqlx.ExtContext, userUUID string) ([]string, error)
}

// PermissionService : разрешения текущего пользователя с кэшем поверх БД
type PermissionService interface {
	PermissionsFor(ctx context.Context, userUUID string, isStaff bool) ([]string, error)
	HasPermission(ctx context.Context, userUUID string, isStaff bool, code string) (bool, error)
	CapabilitiesFor(ctx context.Context, userUUID string, isStaff bool) (model.Capabilities, error)
}
