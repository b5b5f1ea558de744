package ports

import (
	"dms-web-server/internal/model"
	"context"
)

type AuthenticationService interface {
	Login(ctx context.Context, username, password, userAgent, ipAddress string) (string, *model.User, error)
	Logout(ctx context.Context, sessionUUID string) error
}
