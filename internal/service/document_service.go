package service

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/ports"
	"dms-web-server/internal/security"
	"dms-web-server/internal/util"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type DocumentService struct {
	documentRepository  ports.DocumentRepository
	accessLogRepository ports.AccessLogRepository
	permissionService   ports.PermissionService
	storage             ports.FileStorage
	uploadCfg           *config.UploadConfig
}

func NewDocumentService(
	documentRepository ports.DocumentRepository,
	accessLogRepository ports.AccessLogRepository,
	permissionService ports.PermissionService,
	storage ports.FileStorage,
	uploadCfg *config.UploadConfig,
) *DocumentService {
	return &DocumentService{
		documentRepository:  documentRepository,
		accessLogRepository: accessLogRepository,
		permissionService:   permissionService,
		storage:             storage,
		uploadCfg:           uploadCfg,
	}
}

// ListDocuments : все документы либо поиск по подстроке в title/description,
// плюс права текущего пользователя для отрисовки действий
func (s *DocumentService) ListDocuments(ctx context.Context, search string) ([]model.Document, model.Capabilities, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, model.Capabilities{}, fmt.Errorf("[DocumentService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		return nil, model.Capabilities{}, fmt.Errorf("[DocumentService] пользователь не авторизован")
	}

	documents, err := s.documentRepository.Search(ctx, db, search)
	if err != nil {
		return nil, model.Capabilities{}, util.LogError("[DocumentService] не удалось получить список документов", err)
	}

	caps, err := s.permissionService.CapabilitiesFor(ctx, claims.UserUUID, claims.IsStaff)
	if err != nil {
		return nil, model.Capabilities{}, util.LogError("[DocumentService] не удалось получить права пользователя", err)
	}

	return documents, caps, nil
}

// Upload : валидирует форму, пишет файл в хранилище, сохраняет запись и
// фиксирует действие в журнале. При ошибках валидации ничего не пишется.
func (s *DocumentService) Upload(ctx context.Context, input model.UploadInput, content io.Reader, ipAddress string) (*model.Document, []model.FieldError, error) {
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		return nil, nil, fmt.Errorf("[DocumentService] пользователь не авторизован")
	}

	if fieldErrors := ValidateUpload(input, s.uploadCfg); len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	storagePath := uploadPath(input.Filename, time.Now())

	// фактический размер берём из хранилища, а не из заголовков формы
	written, err := s.storage.Save(ctx, storagePath, content)
	if err != nil {
		return nil, nil, util.LogError("[DocumentService] не удалось сохранить файл", err)
	}

	document := &model.Document{
		UUID:             uuid.New().String(),
		Title:            strings.TrimSpace(input.Title),
		Description:      input.Description,
		FilenameOriginal: filepath.Base(input.Filename),
		StoragePath:      storagePath,
		UploadedBy:       &claims.UserUUID,
		FileSize:         written,
	}

	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return nil, nil, util.LogError("[DocumentService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := s.documentRepository.Create(ctx, exec, document); err != nil {
		// файл уже записан, откатываем и его
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			log.Printf("[DocumentService] не удалось удалить файл после ошибки БД: %v", delErr)
		}
		return nil, nil, util.LogError("[DocumentService] не удалось сохранить документ в БД", err)
	}

	if err := commit(); err != nil {
		return nil, nil, util.LogError("[DocumentService] не удалось закоммитить транзакцию", err)
	}

	s.logAccess(ctx, document.UUID, claims, model.ActionUpload, ipAddress)

	log.Printf("[DocumentService] документ %s успешно загружен", document.FilenameOriginal)

	return document, nil, nil
}

// View : детали документа. Счётчик просмотров инкрементируется атомарно в
// БД и сразу же, действие фиксируется в журнале.
func (s *DocumentService) View(ctx context.Context, documentUUID string, ipAddress string) (*model.Document, model.Capabilities, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, model.Capabilities{}, fmt.Errorf("[DocumentService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		return nil, model.Capabilities{}, fmt.Errorf("[DocumentService] пользователь не авторизован")
	}

	document, err := s.documentRepository.GetByUUID(ctx, db, documentUUID)
	if err != nil {
		return nil, model.Capabilities{}, util.LogError("[DocumentService] документ не найден", err)
	}

	if err := s.documentRepository.IncrementViews(ctx, db, documentUUID); err != nil {
		return nil, model.Capabilities{}, util.LogError("[DocumentService] не удалось обновить счётчик просмотров", err)
	}
	document.ViewsCount++

	s.logAccess(ctx, documentUUID, claims, model.ActionView, ipAddress)

	caps, err := s.permissionService.CapabilitiesFor(ctx, claims.UserUUID, claims.IsStaff)
	if err != nil {
		return nil, model.Capabilities{}, util.LogError("[DocumentService] не удалось получить права пользователя", err)
	}

	return document, caps, nil
}

// Download : поток байтов файла для отдачи attachment'ом. Инкрементирует
// счётчик скачиваний и пишет журнал.
func (s *DocumentService) Download(ctx context.Context, documentUUID string, ipAddress string) (*model.FileStream, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[DocumentService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		return nil, fmt.Errorf("[DocumentService] пользователь не авторизован")
	}

	document, err := s.documentRepository.GetByUUID(ctx, db, documentUUID)
	if err != nil {
		return nil, util.LogError("[DocumentService] документ не найден", err)
	}

	exists, err := s.storage.Exists(ctx, document.StoragePath)
	if err != nil {
		return nil, util.LogError("[DocumentService] ошибка проверки файла", err)
	}
	if exists == false {
		return nil, fmt.Errorf("[DocumentService] файл документа не найден")
	}

	if err := s.documentRepository.IncrementDownloads(ctx, db, documentUUID); err != nil {
		return nil, util.LogError("[DocumentService] не удалось обновить счётчик скачиваний", err)
	}
	document.DownloadsCount++

	s.logAccess(ctx, documentUUID, claims, model.ActionDownload, ipAddress)

	return s.openStream(ctx, document)
}

// Print : тот же поток байтов, но без инкремента счётчиков — документ
// отдаётся inline для печати в браузере
func (s *DocumentService) Print(ctx context.Context, documentUUID string, ipAddress string) (*model.FileStream, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[DocumentService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		return nil, fmt.Errorf("[DocumentService] пользователь не авторизован")
	}

	document, err := s.documentRepository.GetByUUID(ctx, db, documentUUID)
	if err != nil {
		return nil, util.LogError("[DocumentService] документ не найден", err)
	}

	exists, err := s.storage.Exists(ctx, document.StoragePath)
	if err != nil {
		return nil, util.LogError("[DocumentService] ошибка проверки файла", err)
	}
	if exists == false {
		return nil, fmt.Errorf("[DocumentService] файл документа не найден")
	}

	s.logAccess(ctx, documentUUID, claims, model.ActionPrint, ipAddress)

	return s.openStream(ctx, document)
}

// ConfirmDelete : данные для шага подтверждения перед удалением
func (s *DocumentService) ConfirmDelete(ctx context.Context, documentUUID string) (*model.Document, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[DocumentService] database connection не найден в context")
	}

	document, err := s.documentRepository.GetByUUID(ctx, db, documentUUID)
	if err != nil {
		return nil, util.LogError("[DocumentService] документ не найден", err)
	}

	return document, nil
}

// Delete : фиксирует действие в журнале, удаляет файл из хранилища и саму
// запись. Записи журнала уходят каскадом вместе с документом — включая
// только что записанную запись об удалении.
func (s *DocumentService) Delete(ctx context.Context, documentUUID string, ipAddress string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return fmt.Errorf("[DocumentService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		return fmt.Errorf("[DocumentService] пользователь не авторизован")
	}

	document, err := s.documentRepository.GetByUUID(ctx, db, documentUUID)
	if err != nil {
		return util.LogError("[DocumentService] документ не найден", err)
	}

	s.logAccess(ctx, documentUUID, claims, model.ActionDelete, ipAddress)

	exists, err := s.storage.Exists(ctx, document.StoragePath)
	if err != nil {
		log.Printf("[DocumentService] ошибка проверки файла перед удалением: %v", err)
	}
	if exists {
		if err := s.storage.Delete(ctx, document.StoragePath); err != nil {
			return util.LogError("[DocumentService] не удалось удалить файл", err)
		}
	}

	if _, err := s.documentRepository.Delete(ctx, db, documentUUID); err != nil {
		return util.LogError("[DocumentService] не удалось удалить документ", err)
	}

	log.Printf("[DocumentService] документ %s удалён пользователем %s", document.Title, claims.Username)

	return nil
}

// logAccess : запись журнала идёт после успешного действия и не блокирует
// его — ошибка только логируется
func (s *DocumentService) logAccess(ctx context.Context, documentUUID string, claims *security.Claims, action string, ipAddress string) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		log.Printf("[DocumentService] журнал доступа: database connection не найден в context")
		return
	}

	entry := &model.AccessLogEntry{
		UUID:         uuid.New().String(),
		DocumentUUID: documentUUID,
		UserUUID:     &claims.UserUUID,
		Action:       action,
		IPAddress:    ipAddress,
	}

	if err := s.accessLogRepository.Append(ctx, db, entry); err != nil {
		log.Printf("[DocumentService] не удалось записать журнал доступа (%s): %v", action, err)
	}
}

func (s *DocumentService) openStream(ctx context.Context, document *model.Document) (*model.FileStream, error) {
	content, err := s.storage.Open(ctx, document.StoragePath)
	if err != nil {
		return nil, util.LogError("[DocumentService] не удалось открыть файл", err)
	}

	return &model.FileStream{
		Document:    document,
		Content:     content,
		ContentType: contentTypeForFile(document.FilenameOriginal),
	}, nil
}

// contentTypeForFile : тип содержимого по расширению, octet-stream как
// запасной вариант
func contentTypeForFile(filename string) string {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		return "application/octet-stream"
	}
	return contentType
}

// uploadPath : documents/<год>/<месяц>/<оригинальное имя файла>.
// Совпадение имён в одном месяце перезаписывает файл.
func uploadPath(filename string, now time.Time) string {
	return fmt.Sprintf("documents/%d/%02d/%s", now.Year(), int(now.Month()), filepath.Base(filename))
}
