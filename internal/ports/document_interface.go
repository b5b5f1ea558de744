package ports

import (
	"dms-web-server/internal/model"
	"context"
	"io"
	"github.com/jmoiron/sqlx"
)

// DocumentRepository : SQL слой по документам
type DocumentRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.Document, error)
	Search(ctx context.Context, exec sqlx.ExtContext, query string) ([]model.Document, error)
	IncrementViews(ctx context.Context, exec sqlx.ExtContext, documentUUID string) error
	IncrementDownloads(ctx context.Context, exec sqlx.ExtContext, documentUUID string) error
	Delete(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (string, error)
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// AccessLogRepository : журнал доступа, только append
type AccessLogRepository interface {
	Append(ctx context.Context, exec sqlx.ExtContext, entry *model.AccessLogEntry) error
	ListByDocument(ctx context.Context, exec sqlx.ExtContext, documentUUID string) ([]model.AccessLogEntry, error)
}

type DocumentService interface {
	ListDocuments(ctx context.Context, search string) ([]model.Document, model.Capabilities, error)
	Upload(ctx context.Context, input model.UploadInput, content io.Reader, ipAddress string) (*model.Document, []model.FieldError, error)
	View(ctx context.Context, documentUUID string, ipAddress string) (*model.Document, model.Capabilities, error)
	Download(ctx context.Context, documentUUID string, ipAddress string) (*model.FileStream, error)
	Print(ctx context.Context, documentUUID string, ipAddress string) (*model.FileStream, error)
	ConfirmDelete(ctx context.Context, documentUUID string) (*model.Document, error)
	Delete(ctx context.Context, documentUUID string, ipAddress string) error
}
