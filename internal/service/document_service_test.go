package service_test

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/security"
	"dms-web-server/internal/service"
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDocumentRepository struct{ mock.Mock }

func (m *MockDocumentRepository) Create(ctx context.Context, exec sqlx.ExtContext, doc *model.Document) error {
	return m.Called(ctx, exec, doc).Error(0)
}

func (m *MockDocumentRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.Document, error) {
	args := m.Called(ctx, exec, documentUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) Search(ctx context.Context, exec sqlx.ExtContext, query string) ([]model.Document, error) {
	args := m.Called(ctx, exec, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) IncrementViews(ctx context.Context, exec sqlx.ExtContext, documentUUID string) error {
	return m.Called(ctx, exec, documentUUID).Error(0)
}

func (m *MockDocumentRepository) IncrementDownloads(ctx context.Context, exec sqlx.ExtContext, documentUUID string) error {
	return m.Called(ctx, exec, documentUUID).Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (string, error) {
	args := m.Called(ctx, exec, documentUUID)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	return args.Get(0).(sqlx.ExtContext), args.Get(1).(func() error), args.Get(2).(func() error), args.Error(3)
}

type MockAccessLogRepository struct{ mock.Mock }

func (m *MockAccessLogRepository) Append(ctx context.Context, exec sqlx.ExtContext, entry *model.AccessLogEntry) error {
	return m.Called(ctx, exec, entry).Error(0)
}

func (m *MockAccessLogRepository) ListByDocument(ctx context.Context, exec sqlx.ExtContext, documentUUID string) ([]model.AccessLogEntry, error) {
	args := m.Called(ctx, exec, documentUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessLogEntry), args.Error(1)
}

type MockPermissionService struct{ mock.Mock }

func (m *MockPermissionService) PermissionsFor(ctx context.Context, userUUID string, isStaff bool) ([]string, error) {
	args := m.Called(ctx, userUUID, isStaff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPermissionService) HasPermission(ctx context.Context, userUUID string, isStaff bool, code string) (bool, error) {
	args := m.Called(ctx, userUUID, isStaff, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPermissionService) CapabilitiesFor(ctx context.Context, userUUID string, isStaff bool) (model.Capabilities, error) {
	args := m.Called(ctx, userUUID, isStaff)
	return args.Get(0).(model.Capabilities), args.Error(1)
}

type MockFileStorage struct{ mock.Mock }

func (m *MockFileStorage) Save(ctx context.Context, key string, content io.Reader) (int64, error) {
	args := m.Called(ctx, key, content)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type fakeTx struct{}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return &sql.Row{}
}
func (f *fakeTx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return &sqlx.Row{}
}
func (f *fakeTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return "", nil, nil
}
func (f *fakeTx) DriverName() string         { return "fake" }
func (f *fakeTx) Rebind(query string) string { return query }

// ===== Подготовка сервиса с моками =====

func newTestDocumentService() (*service.DocumentService, *MockDocumentRepository, *MockAccessLogRepository, *MockPermissionService, *MockFileStorage) {
	mockDocRepo := new(MockDocumentRepository)
	mockLogRepo := new(MockAccessLogRepository)
	mockPerms := new(MockPermissionService)
	mockStorage := new(MockFileStorage)

	svc := service.NewDocumentService(
		mockDocRepo,
		mockLogRepo,
		mockPerms,
		mockStorage,
		testUploadConfig(),
	)

	return svc, mockDocRepo, mockLogRepo, mockPerms, mockStorage
}

func authenticatedContext(userUUID, username string, isStaff bool) context.Context {
	ctx := context.WithValue(context.Background(), "db", &config.Database{})
	return context.WithValue(ctx, security.UserContextKey, &security.Claims{
		UserUUID: userUUID,
		Username: username,
		IsStaff:  isStaff,
	})
}

// ===== ListDocuments =====

func TestListDocuments_Success(t *testing.T) {
	svc, mockDocRepo, _, mockPerms, _ := newTestDocumentService()
	ctx := authenticatedContext("user1", "employee1", false)

	documents := []model.Document{
		{UUID: "doc1", Title: "Договор"},
		{UUID: "doc2", Title: "Отчёт"},
	}
	caps := model.Capabilities{CanAdd: true, CanPrint: true}

	mockDocRepo.On("Search", ctx, mock.Anything, "").Return(documents, nil)
	mockPerms.On("CapabilitiesFor", ctx, "user1", false).Return(caps, nil)

	result, resultCaps, err := svc.ListDocuments(ctx, "")

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.True(t, resultCaps.CanAdd)
	assert.False(t, resultCaps.CanDelete)
	mockDocRepo.AssertExpectations(t)
}

func TestListDocuments_SearchPassedThrough(t *testing.T) {
	svc, mockDocRepo, _, mockPerms, _ := newTestDocumentService()
	ctx := authenticatedContext("user1", "employee1", false)

	mockDocRepo.On("Search", ctx, mock.Anything, "договор").Return([]model.Document{}, nil)
	mockPerms.On("CapabilitiesFor", ctx, "user1", false).Return(model.Capabilities{}, nil)

	result, _, err := svc.ListDocuments(ctx, "договор")

	assert.NoError(t, err)
	assert.Empty(t, result)
	mockDocRepo.AssertExpectations(t)
}

func TestListDocuments_NoClaims(t *testing.T) {
	svc, _, _, _, _ := newTestDocumentService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	_, _, err := svc.ListDocuments(ctx, "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "не авторизован")
}

// ===== Upload =====

func TestUpload_Success(t *testing.T) {
	svc, mockDocRepo, mockLogRepo, _, mockStorage := newTestDocumentService()
	ctx := authenticatedContext("user1", "employee1", false)

	content := strings.NewReader("%PDF-1.4 fake")
	input := model.UploadInput{
		Title:    "Договор",
		Filename: "contract.pdf",
		Size:     13,
	}

	tx := &fakeTx{}
	rollback := func() error { return nil }
	commit := func() error { return nil }

	mockStorage.On("Save", ctx, mock.Anything, content).Return(int64(13), nil)
	mockDocRepo.On("BeginTX", ctx).Return(tx, rollback, commit, nil)
	mockDocRepo.On("Create", ctx, tx, mock.Anything).Return(nil)
	mockLogRepo.On("Append", ctx, mock.Anything, mock.Anything).Return(nil)

	document, fieldErrors, err := svc.Upload(ctx, input, content, "10.0.0.1")

	require.NoError(t, err)
	assert.Empty(t, fieldErrors)
	require.NotNil(t, document)
	assert.Equal(t, "contract.pdf", document.FilenameOriginal)
	assert.Equal(t, int64(13), document.FileSize)
	assert.Contains(t, document.StoragePath, "documents/")
	assert.Contains(t, document.StoragePath, "contract.pdf")
	require.NotNil(t, document.UploadedBy)
	assert.Equal(t, "user1", *document.UploadedBy)

	mockDocRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
	mockLogRepo.AssertExpectations(t)
}

func TestUpload_ValidationFailureWritesNothing(t *testing.T) {
	svc, mockDocRepo, mockLogRepo, _, mockStorage := newTestDocumentService()
	ctx := authenticatedContext("user1", "employee1", false)

	input := model.UploadInput{
		Title:    "",
		Filename: "contract.pdf",
		Size:     13,
	}

	document, fieldErrors, err := svc.Upload(ctx, input, strings.NewReader("data"), "10.0.0.1")

	assert.NoError(t, err)
	assert.Nil(t, document)
	assert.Len(t, fieldErrors, 1)
	mockStorage.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	mockDocRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	mockLogRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_DBErrorCleansUpStoredFile(t *testing.T) {
	svc, mockDocRepo, mockLogRepo, _, mockStorage := newTestDocumentService()
	ctx := authenticatedContext("user1", "employee1", false)

	content := strings.NewReader("data")
	input := model.UploadInput{
		Title:    "Договор",
		Filename: "contract.pdf",
		Size:     4,
	}

	tx := &fakeTx{}
	rollback := func() error { return nil }
	commit := func() error { return nil }

	mockStorage.On("Save", ctx, mock.Anything, content).Return(int64(4), nil)
	mockDocRepo.On("BeginTX", ctx).Return(tx, rollback, commit, nil)
	mockDocRepo.On("Create", ctx, tx, mock.Anything).Return(errors.New("db error"))
	mockStorage.On("Delete", ctx, mock.Anything).Return(nil)

	document, fieldErrors, err := svc.Upload(ctx, input, content, "10.0.0.1")

	assert.Error(t, err)
	assert.Nil(t, document)
	assert.Empty(t, fieldErrors)
	mockStorage.AssertCalled(t, "Delete", ctx, mock.Anything)
	mockLogRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

// ===== View =====

func TestView_IncrementsCounterAndLogs(t *testing.T) {
	svc, mockDocRepo, mockLogRepo, mockPerms, _ := newTestDocumentService()
	ctx := authenticatedContext("user1", "employee1", false)

	document := &model.Document{UUID: "doc1", Title: "Договор", ViewsCount: 7}

	mockDocRepo.On("GetByUUID", ctx, mock.Anything, "doc1").Return(document, nil)
	mockDocRepo.On("IncrementViews", ctx, mock.Anything, "doc1").Return(nil)
	mockLogRepo.On("Append", ctx, mock.Anything, mock.MatchedBy(func(entry *model.AccessLogEntry) bool {
		return entry.Action == model.ActionView && entry.DocumentUUID == "doc1"
	})).Return(nil)
	mockPerms.On("CapabilitiesFor", ctx, "user1", false).Return(model.Capabilities{}, nil)

	result, _, err := svc.View(ctx, "doc1", "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, 8, result.ViewsCount)
	mockDocRepo.AssertExpectations(t)
	mockLogRepo.AssertExpectations(t)
}

func TestView_NotFound(t *testing.T) {
	svc, mockDocRepo, mockLogRepo, _, _ := newTestDocumentService()
	ctx := authenticatedContext("user1", "employee1", false)

	mockDocRepo.On("GetByUUID", ctx, mock.Anything, "missing").Return(nil, errors.New("запись не найдена"))

	_, _, err := svc.View(ctx, "missing", "10.0.0.1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "не найден")
	mockLogRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

func TestView_LogFailureDoesNotFailAction(t *testing.T) {
	svc, mockDocRepo, mockLogRepo, mockPerms, _ := newTestDocumentService()
	ctx := authenticatedContext("user1", "employee1", false)

	document := &model.Document{UUID: "doc1", Title: "Договор"}

	mockDocRepo.On("GetByUUID", ctx, mock.Anything, "doc1").Return(document, nil)
	mockDocRepo.On("IncrementViews", ctx, mock.Anything, "doc1").Return(nil)
	mockLogRepo.On("Append", ctx, mock.Anything, mock.Anything).Return(errors.New("журнал недоступен"))
	mockPerms.On("CapabilitiesFor", ctx, "user1", false).Return(model.Capabilities{}, nil)

	result, _, err := svc.View(ctx, "doc1", "10.0.0.1")

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

// ===== Download =====

func TestDownload_Success(t *testing.T) {
	svc, mockDocRepo, mockLogRepo, _, mockStorage := newTestDocumentService()
	ctx := authenticatedContext("user1", "employee1", false)

	document := &model.Document{
		UUID:             "doc1",
		FilenameOriginal: "contract.pdf",
		StoragePath:      "documents/2025/08/contract.pdf",
		DownloadsCount:   2,
	}

	mockDocRepo.On("GetByUUID", ctx, mock.Anything, "doc1").Return(document, nil)
	mockStorage.On("Exists", ctx, document.StoragePath).Return(true, nil)
	mockDocRepo.On("IncrementDownloads", ctx, mock.Anything, "doc1").Return(nil)
	mockLogRepo.On("Append", ctx, mock.Anything, mock.MatchedBy(func(entry *model.AccessLogEntry) bool {
		return entry.Action == model.ActionDownload
	})).Return(nil)
	mockStorage.On("Open", ctx, document.StoragePath).Return(io.NopCloser(strings.NewReader("%PDF")), nil)

	stream, err := svc.Download(ctx, "doc1", "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, 3, stream.Document.DownloadsCount)
	assert.Equal(t, "application/pdf", stream.ContentType)
	stream.Content.Close()
	mockDocRepo.AssertExpectations(t)
}

func TestDownload_MissingFile(t *testing.T) {
	svc, mockDocRepo, mockLogRepo, _, mockStorage := newTestDocumentService()
	ctx := authenticatedContext("user1", "employee1", false)

	document := &model.Document{UUID: "doc1", StoragePath: "documents/2025/08/gone.pdf"}

	mockDocRepo.On("GetByUUID", ctx, mock.Anything, "doc1").Return(document, nil)
	mockStorage.On("Exists", ctx, document.StoragePath).Return(false, nil)

	_, err := svc.Download(ctx, "doc1", "10.0.0.1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "файл документа не найден")
	mockDocRepo.AssertNotCalled(t, "IncrementDownloads", mock.Anything, mock.Anything, mock.Anything)
	mockLogRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

// ===== Print =====

func TestPrint_DoesNotCountDownload(t *testing.T) {
	svc, mockDocRepo, mockLogRepo, _, mockStorage := newTestDocumentService()
	ctx := authenticatedContext("user1", "employee1", false)

	document := &model.Document{
		UUID:             "doc1",
		FilenameOriginal: "contract.pdf",
		StoragePath:      "documents/2025/08/contract.pdf",
	}

	mockDocRepo.On("GetByUUID", ctx, mock.Anything, "doc1").Return(document, nil)
	mockStorage.On("Exists", ctx, document.StoragePath).Return(true, nil)
	mockLogRepo.On("Append", ctx, mock.Anything, mock.MatchedBy(func(entry *model.AccessLogEntry) bool {
		return entry.Action == model.ActionPrint
	})).Return(nil)
	mockStorage.On("Open", ctx, document.StoragePath).Return(io.NopCloser(strings.NewReader("%PDF")), nil)

	stream, err := svc.Print(ctx, "doc1", "10.0.0.1")

	require.NoError(t, err)
	stream.Content.Close()
	mockDocRepo.AssertNotCalled(t, "IncrementDownloads", mock.Anything, mock.Anything, mock.Anything)
	mockDocRepo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything, mock.Anything)
	mockLogRepo.AssertExpectations(t)
}

// ===== Delete =====

func TestDelete_RemovesFileAndRecord(t *testing.T) {
	svc, mockDocRepo, mockLogRepo, _, mockStorage := newTestDocumentService()
	ctx := authenticatedContext("admin1", "admin_demo", true)

	document := &model.Document{
		UUID:        "doc1",
		Title:       "Договор",
		StoragePath: "documents/2025/08/contract.pdf",
	}

	mockDocRepo.On("GetByUUID", ctx, mock.Anything, "doc1").Return(document, nil)
	mockLogRepo.On("Append", ctx, mock.Anything, mock.MatchedBy(func(entry *model.AccessLogEntry) bool {
		return entry.Action == model.ActionDelete
	})).Return(nil)
	mockStorage.On("Exists", ctx, document.StoragePath).Return(true, nil)
	mockStorage.On("Delete", ctx, document.StoragePath).Return(nil)
	mockDocRepo.On("Delete", ctx, mock.Anything, "doc1").Return(document.StoragePath, nil)

	err := svc.Delete(ctx, "doc1", "10.0.0.1")

	assert.NoError(t, err)
	mockDocRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
	mockLogRepo.AssertExpectations(t)
}

func TestDelete_MissingFileStillDeletesRecord(t *testing.T) {
	svc, mockDocRepo, mockLogRepo, _, mockStorage := newTestDocumentService()
	ctx := authenticatedContext("admin1", "admin_demo", true)

	document := &model.Document{UUID: "doc1", StoragePath: "documents/2025/08/gone.pdf"}

	mockDocRepo.On("GetByUUID", ctx, mock.Anything, "doc1").Return(document, nil)
	mockLogRepo.On("Append", ctx, mock.Anything, mock.Anything).Return(nil)
	mockStorage.On("Exists", ctx, document.StoragePath).Return(false, nil)
	mockDocRepo.On("Delete", ctx, mock.Anything, "doc1").Return(document.StoragePath, nil)

	err := svc.Delete(ctx, "doc1", "10.0.0.1")

	assert.NoError(t, err)
	mockStorage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
