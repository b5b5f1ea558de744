package repository

import (
	"dms-web-server/config"
	"dms-web-server/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"time"
)

// CacheRepository : кэш разрешённых действий пользователя в Redis.
// Права меняются редко, TTL ограничивает устаревание.
type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetPermissions(ctx context.Context, userUUID string, permissions []string) error {
	data, err := json.Marshal(permissions)
	if err != nil {
		return util.LogError("ошибка сериализации прав", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(userUUID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *CacheRepository) GetPermissions(ctx context.Context, userUUID string) ([]string, error) {
	val, err := r.client.Client.Get(ctx, r.key(userUUID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения прав из Redis", err)
	}

	var permissions []string
	if err := json.Unmarshal([]byte(val), &permissions); err != nil {
		return nil, util.LogError("ошибка десериализации прав из кэша", err)
	}
	return permissions, nil
}

func (r *CacheRepository) DeletePermissions(ctx context.Context, userUUID string) error {
	if err := r.client.Client.Del(ctx, r.key(userUUID)).Err(); err != nil {
		return util.LogError("ошибка удаления прав из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(userUUID string) string {
	return fmt.Sprintf("permissions:%s", userUUID)
}
