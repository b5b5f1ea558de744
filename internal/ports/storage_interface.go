package ports

import (
	"context"
	"io"
)

// FileStorage : хранилище файлов документов. Key — путь вида
// documents/<год>/<месяц>/<имя файла>. Реализации: локальный диск и S3.
type FileStorage interface {
	Save(ctx context.Context, key string, content io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
