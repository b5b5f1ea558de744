package handler

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/model/requestresponse"
	"dms-web-server/internal/ports"
	"dms-web-server/internal/util"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type DocumentHandler struct {
	ports.DocumentService
	uploadCfg *config.UploadConfig
}

func NewDocumentHandler(documentService ports.DocumentService, uploadCfg *config.UploadConfig) *DocumentHandler {
	return &DocumentHandler{documentService, uploadCfg}
}

// ListDocuments godoc
// @Summary Список документов
// @Description Возвращает документы (новые первыми), опционально отфильтрованные по подстроке в названии или описании
// @Tags Documents
// @Produce json
// @Param search query string false "Подстрока поиска"
// @Success 200 {object} requestresponse.ListDocumentsResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security SessionCookie
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	search := r.URL.Query().Get("search")

	documents, capabilities, err := h.DocumentService.ListDocuments(ctx, search)
	if err != nil {
		log.Println(err)
		handleDocumentError(w, err)
		return
	}

	resp := requestresponse.ListDocumentsResponse{}
	resp.Data.Documents = make([]requestresponse.DocumentResponse, 0, len(documents))
	for i := range documents {
		resp.Data.Documents = append(resp.Data.Documents, requestresponse.DocumentResponseFromModel(&documents[i]))
	}
	resp.Data.Search = search
	resp.Data.Capabilities = capabilities

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// UploadForm godoc
// @Summary Ограничения формы загрузки
// @Description Возвращает допустимые расширения и максимальный размер файла
// @Tags Documents
// @Produce json
// @Success 200 {object} requestresponse.UploadFormResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Security SessionCookie
// @Router /documents/upload [get]
func (h *DocumentHandler) UploadForm(w http.ResponseWriter, r *http.Request) {
	resp := requestresponse.UploadFormResponse{}
	resp.Data.AllowedExtensions = h.uploadCfg.AllowedExtensions
	resp.Data.MaxSizeBytes = h.uploadCfg.MaxSizeBytes

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// UploadDocument godoc
// @Summary Загрузка документа
// @Description Принимает multipart-форму с полями title, description и файлом file
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Название документа"
// @Param description formData string false "Описание"
// @Param file formData file true "PDF или изображение, не больше 10 МБ"
// @Success 201 {object} requestresponse.UploadDocumentResponse
// @Failure 400 {object} requestresponse.ValidationErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security SessionCookie
// @Router /documents/upload [post]
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	// Лимит с запасом под текстовые поля формы, сам файл валидируется по
	// заявленному размеру в сервисе.
	if err := r.ParseMultipartForm(h.uploadCfg.MaxSizeBytes + 1<<20); err != nil {
		log.Println(err)
		util.HandleError(w, "не удалось разобрать multipart-форму", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleValidationErrors(w, []model.FieldError{{Field: "file", Message: "обязательное поле"}})
		return
	}
	defer file.Close()

	input := model.UploadInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Filename:    header.Filename,
		Size:        header.Size,
	}

	document, fieldErrors, err := h.DocumentService.Upload(ctx, input, file, util.ClientIP(r))
	if len(fieldErrors) > 0 {
		util.HandleValidationErrors(w, fieldErrors)
		return
	}
	if err != nil {
		log.Println(err)
		handleDocumentError(w, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/documents", http.StatusFound)
		return
	}

	resp := requestresponse.UploadDocumentResponse{Data: requestresponse.DocumentResponseFromModel(document)}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// ViewDocument godoc
// @Summary Карточка документа
// @Description Возвращает детали документа и увеличивает счётчик просмотров
// @Tags Documents
// @Produce json
// @Param doc_id path string true "UUID документа"
// @Success 200 {object} requestresponse.GetDocumentResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security SessionCookie
// @Router /documents/{doc_id} [get]
func (h *DocumentHandler) ViewDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	documentUUID := chi.URLParam(r, "doc_id")

	document, capabilities, err := h.DocumentService.View(ctx, documentUUID, util.ClientIP(r))
	if err != nil {
		log.Println(err)
		handleDocumentError(w, err)
		return
	}

	resp := requestresponse.GetDocumentResponse{}
	resp.Data.Document = requestresponse.DocumentResponseFromModel(document)
	resp.Data.Capabilities = capabilities

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// DownloadDocument godoc
// @Summary Скачивание файла документа
// @Description Отдаёт файл как вложение с исходным именем и увеличивает счётчик скачиваний
// @Tags Documents
// @Produce octet-stream
// @Param doc_id path string true "UUID документа"
// @Success 200 {file} binary
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security SessionCookie
// @Router /documents/{doc_id}/download [get]
func (h *DocumentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	documentUUID := chi.URLParam(r, "doc_id")

	stream, err := h.DocumentService.Download(ctx, documentUUID, util.ClientIP(r))
	if err != nil {
		log.Println(err)
		handleDocumentError(w, err)
		return
	}
	defer stream.Content.Close()

	writeFileStream(w, stream, "attachment")
}

// PrintDocument godoc
// @Summary Версия для печати
// @Description Отдаёт файл inline для печати из браузера, скачивания не засчитывает
// @Tags Documents
// @Produce octet-stream
// @Param doc_id path string true "UUID документа"
// @Success 200 {file} binary
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security SessionCookie
// @Router /documents/{doc_id}/print [get]
func (h *DocumentHandler) PrintDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	documentUUID := chi.URLParam(r, "doc_id")

	stream, err := h.DocumentService.Print(ctx, documentUUID, util.ClientIP(r))
	if err != nil {
		log.Println(err)
		handleDocumentError(w, err)
		return
	}
	defer stream.Content.Close()

	writeFileStream(w, stream, "inline")
}

// ConfirmDelete godoc
// @Summary Подтверждение удаления
// @Description Возвращает документ, который будет удалён POST-запросом на тот же URL
// @Tags Documents
// @Produce json
// @Param doc_id path string true "UUID документа"
// @Success 200 {object} requestresponse.DeleteConfirmResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security SessionCookie
// @Router /documents/{doc_id}/delete [get]
func (h *DocumentHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	documentUUID := chi.URLParam(r, "doc_id")

	document, err := h.DocumentService.ConfirmDelete(ctx, documentUUID)
	if err != nil {
		log.Println(err)
		handleDocumentError(w, err)
		return
	}

	resp := requestresponse.DeleteConfirmResponse{}
	resp.Data.Document = requestresponse.DocumentResponseFromModel(document)
	resp.Data.Confirm = "POST на этот же URL удалит документ"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// DeleteDocument godoc
// @Summary Удаление документа
// @Description Удаляет документ вместе с файлом и записями журнала доступа
// @Tags Documents
// @Produce json
// @Param doc_id path string true "UUID документа"
// @Success 200 {object} requestresponse.ResponseMessage
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security SessionCookie
// @Router /documents/{doc_id}/delete [post]
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	documentUUID := chi.URLParam(r, "doc_id")

	if err := h.DocumentService.Delete(ctx, documentUUID, util.ClientIP(r)); err != nil {
		log.Println(err)
		handleDocumentError(w, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/documents", http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(requestresponse.ResponseMessage{Response: map[string]interface{}{
		"deleted": true,
		"id":      documentUUID,
	}})
}

// writeFileStream : общая отдача файла для скачивания и печати
func writeFileStream(w http.ResponseWriter, stream *model.FileStream, disposition string) {
	w.Header().Set("Content-Type", stream.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, stream.Document.FilenameOriginal))
	if stream.Document.FileSize > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(stream.Document.FileSize, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, stream.Content); err != nil {
		log.Printf("[DocumentHandler] ошибка при отдаче файла: %v", err)
	}
}

// handleDocumentError : маппинг ошибок сервисного слоя на HTTP статусы
func handleDocumentError(w http.ResponseWriter, err error) {
	switch {
	case strings.Contains(err.Error(), "не найден"):
		util.HandleError(w, "документ не найден", http.StatusNotFound)
	case strings.Contains(err.Error(), "доступ запрещён"):
		util.HandleError(w, "доступ запрещён", http.StatusForbidden)
	case strings.Contains(err.Error(), "не авторизован"):
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
	default:
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}
