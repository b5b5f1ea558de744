package repository

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/util"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/jmoiron/sqlx"
)

var ErrDocumentNotFound = errors.New("документ не найден")

type DocumentRepository struct {
	*config.Database
}

func NewDocumentRepository(database *config.Database) *DocumentRepository {
	return &DocumentRepository{database}
}

// Create : сохраняем новый документ
func (r *DocumentRepository) Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error {
	query := `
		INSERT INTO documents (uuid, title, description, filename_original, storage_path, uploaded_by, file_size, pages_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		document.UUID,
		document.Title,
		document.Description,
		document.FilenameOriginal,
		document.StoragePath,
		document.UploadedBy,
		document.FileSize,
		document.PagesCount)

	if err != nil {
		return util.LogError("[DocumentRepo] ошибка вставки документа в БД", err)
	}
	return nil
}

// GetByUUID : возвращаем документ по его UUID
func (r *DocumentRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.Document, error) {
	query := `
		SELECT uuid, title, description, filename_original, storage_path, uploaded_by,
		       uploaded_at, updated_at, file_size, pages_count, views_count, downloads_count
		FROM documents
		WHERE uuid = $1
	`

	var document model.Document
	err := sqlx.GetContext(ctx, exec, &document, query, documentUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, util.LogError("[DocumentRepo] ошибка чтения документа из БД", err)
	}

	return &document, nil
}

// Search : все документы, либо подстрочный поиск без учёта регистра по
// title ИЛИ description одним запросом
func (r *DocumentRepository) Search(ctx context.Context, exec sqlx.ExtContext, search string) ([]model.Document, error) {
	query := `
		SELECT uuid, title, description, filename_original, storage_path, uploaded_by,
		       uploaded_at, updated_at, file_size, pages_count, views_count, downloads_count
		FROM documents
		WHERE $1 = '' OR title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		ORDER BY uploaded_at DESC
	`

	documents := []model.Document{}
	if err := sqlx.SelectContext(ctx, exec, &documents, query, search); err != nil {
		return nil, util.LogError("[DocumentRepo] ошибка поиска документов", err)
	}

	return documents, nil
}

// IncrementViews : атомарный инкремент счётчика просмотров на уровне БД
func (r *DocumentRepository) IncrementViews(ctx context.Context, exec sqlx.ExtContext, documentUUID string) error {
	return r.incrementCounter(ctx, exec, documentUUID, "views_count")
}

// IncrementDownloads : атомарный инкремент счётчика скачиваний
func (r *DocumentRepository) IncrementDownloads(ctx context.Context, exec sqlx.ExtContext, documentUUID string) error {
	return r.incrementCounter(ctx, exec, documentUUID, "downloads_count")
}

func (r *DocumentRepository) incrementCounter(ctx context.Context, exec sqlx.ExtContext, documentUUID string, column string) error {
	// column подставляется только из IncrementViews/IncrementDownloads
	query := fmt.Sprintf(`
		UPDATE documents
		SET %s = %s + 1, updated_at = NOW()
		WHERE uuid = $1
	`, column, column)

	result, err := exec.ExecContext(ctx, query, documentUUID)
	if err != nil {
		return util.LogError("[DocumentRepo] не удалось обновить счётчик", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[DocumentRepo] не удалось проверить обновление счётчика", err)
	}
	if rowsAffected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

// Delete : удаляет документ и возвращает storage_path для очистки файла.
// Записи журнала доступа удаляются каскадно (FK ON DELETE CASCADE).
func (r *DocumentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (string, error) {
	query := `
		DELETE FROM documents
		WHERE uuid = $1
		RETURNING storage_path
	`

	var storagePath string
	err := sqlx.GetContext(ctx, exec, &storagePath, query, documentUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrDocumentNotFound
		}
		return "", util.LogError("[DocumentRepo] не удалось удалить документ", err)
	}

	return storagePath, nil
}

func (r *DocumentRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}
