package ports

import (
	"dms-web-server/internal/model"
	"dms-web-server/internal/security"
	"context"
)

type SessionRepositoryInterface interface {
	SaveSession(ctx context.Context, session *model.Session) error
	FindByUUID(ctx context.Context, uuid string) (*model.Session, error)
	Revoke(ctx context.Context, uuid string) error
}

type SessionServiceInterface interface {
	GenerateSessionToken(user *model.User) (string, *model.Session, error)
	ValidateToken(tokenStr string, secret []byte) (*security.Claims, error)
}
