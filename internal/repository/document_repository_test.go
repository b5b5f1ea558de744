package repository_test

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/repository"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDatabase(t *testing.T) (*config.Database, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &config.Database{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

func documentColumns() []string {
	return []string{
		"uuid", "title", "description", "filename_original", "storage_path", "uploaded_by",
		"uploaded_at", "updated_at", "file_size", "pages_count", "views_count", "downloads_count",
	}
}

func TestDocumentRepository_Create(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)

	uploadedBy := "user1"
	document := &model.Document{
		UUID:             "doc1",
		Title:            "Договор",
		FilenameOriginal: "contract.pdf",
		StoragePath:      "documents/2025/08/contract.pdf",
		UploadedBy:       &uploadedBy,
		FileSize:         1024,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs(document.UUID, document.Title, document.Description, document.FilenameOriginal,
			document.StoragePath, document.UploadedBy, document.FileSize, document.PagesCount).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), database, document)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_GetByUUID_NotFound(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)

	mock.ExpectQuery("SELECT uuid, title").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(documentColumns()))

	_, err := repo.GetByUUID(context.Background(), database, "missing")

	assert.True(t, errors.Is(err, repository.ErrDocumentNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_Search(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)

	now := time.Now()
	rows := sqlmock.NewRows(documentColumns()).
		AddRow("doc2", "Отчёт", "", "report.pdf", "documents/2025/08/report.pdf", nil, now, now, 2048, 0, 0, 0).
		AddRow("doc1", "Договор", "", "contract.pdf", "documents/2025/07/contract.pdf", nil, now.Add(-time.Hour), now, 1024, 0, 3, 1)

	mock.ExpectQuery("SELECT uuid, title").
		WithArgs("").
		WillReturnRows(rows)

	documents, err := repo.Search(context.Background(), database, "")

	require.NoError(t, err)
	require.Len(t, documents, 2)
	// новые первыми
	assert.Equal(t, "doc2", documents[0].UUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_Search_Empty(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)

	mock.ExpectQuery("SELECT uuid, title").
		WithArgs("несуществующее").
		WillReturnRows(sqlmock.NewRows(documentColumns()))

	documents, err := repo.Search(context.Background(), database, "несуществующее")

	require.NoError(t, err)
	assert.Empty(t, documents)
}

func TestDocumentRepository_IncrementViews(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.IncrementViews(context.Background(), database, "doc1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_IncrementViews_NotFound(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.IncrementViews(context.Background(), database, "missing")

	assert.True(t, errors.Is(err, repository.ErrDocumentNotFound))
}

func TestDocumentRepository_Delete_ReturnsStoragePath(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)

	mock.ExpectQuery("DELETE FROM documents").
		WithArgs("doc1").
		WillReturnRows(sqlmock.NewRows([]string{"storage_path"}).AddRow("documents/2025/08/contract.pdf"))

	storagePath, err := repo.Delete(context.Background(), database, "doc1")

	require.NoError(t, err)
	assert.Equal(t, "documents/2025/08/contract.pdf", storagePath)
}

func TestDocumentRepository_Delete_NotFound(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)

	mock.ExpectQuery("DELETE FROM documents").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"storage_path"}))

	_, err := repo.Delete(context.Background(), database, "missing")

	assert.True(t, errors.Is(err, repository.ErrDocumentNotFound))
}
