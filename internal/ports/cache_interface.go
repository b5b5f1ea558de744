package ports

import "context"

// CacheRepository : Redis слой. Кэшируем разрешённые действия пользователя,
// чтобы не ходить по join-таблицам на каждый запрос.
type CacheRepository interface {
	SetPermissions(ctx context.Context, userUUID string, permissions []string) error
	GetPermissions(ctx context.Context, userUUID string) ([]string, error)
	DeletePermissions(ctx context.Context, userUUID string) error
}
