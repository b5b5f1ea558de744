package requestresponse

import (
	"dms-web-server/internal/model"
	"time"
)

// DocumentResponse : описывает документ для JSON-ответа
type DocumentResponse struct {
	UUID             string `json:"id" example:"qwdj1q4o34u34ih759ou1"`
	Title            string `json:"title" example:"Договор аренды"`
	Description      string `json:"description,omitempty" example:"Скан подписанного договора"`
	FilenameOriginal string `json:"filename" example:"contract.pdf"`
	UploadedBy       string `json:"uploaded_by,omitempty" example:"employee1"`
	UploadedAt       string `json:"uploaded_at" example:"2025-08-23T12:34:56Z"`
	FileSize         int64  `json:"file_size" example:"102400"`
	PagesCount       int    `json:"pages_count,omitempty" example:"3"`
	ViewsCount       int    `json:"views_count" example:"7"`
	DownloadsCount   int    `json:"downloads_count" example:"2"`
}

// DocumentResponseFromModel : конвертирует model.Document в DocumentResponse
func DocumentResponseFromModel(doc *model.Document) DocumentResponse {
	resp := DocumentResponse{
		UUID:             doc.UUID,
		Title:            doc.Title,
		Description:      doc.Description,
		FilenameOriginal: doc.FilenameOriginal,
		UploadedAt:       doc.UploadedAt.Format(time.RFC3339),
		FileSize:         doc.FileSize,
		PagesCount:       doc.PagesCount,
		ViewsCount:       doc.ViewsCount,
		DownloadsCount:   doc.DownloadsCount,
	}
	if doc.UploadedBy != nil {
		resp.UploadedBy = *doc.UploadedBy
	}
	return resp
}

// ListDocumentsResponse : список документов вместе с правами текущего
// пользователя и поисковой строкой
type ListDocumentsResponse struct {
	Data struct {
		Documents    []DocumentResponse `json:"documents"`
		Search       string             `json:"search,omitempty"`
		Capabilities model.Capabilities `json:"capabilities"`
	} `json:"data"`
}

// GetDocumentResponse : детали одного документа
type GetDocumentResponse struct {
	Data struct {
		Document     DocumentResponse   `json:"document"`
		Capabilities model.Capabilities `json:"capabilities"`
	} `json:"data"`
}

// UploadFormResponse : ограничения формы загрузки (аналог GET формы)
type UploadFormResponse struct {
	Data struct {
		AllowedExtensions []string `json:"allowed_extensions" example:"pdf,jpg,jpeg,png,gif"`
		MaxSizeBytes      int64    `json:"max_size_bytes" example:"10485760"`
	} `json:"data"`
}

// UploadDocumentResponse : ответ на успешную загрузку
type UploadDocumentResponse struct {
	Data DocumentResponse `json:"data"`
}

// ValidationErrorResponse : ответ при непройденной валидации загрузки
type ValidationErrorResponse struct {
	Error  string             `json:"error" example:"validation failed"`
	Fields []model.FieldError `json:"fields"`
}

// DeleteConfirmResponse : подтверждение перед удалением (GET)
type DeleteConfirmResponse struct {
	Data struct {
		Document DocumentResponse `json:"document"`
		Confirm  string           `json:"confirm" example:"POST на этот же URL удалит документ"`
	} `json:"data"`
}

// ResponseMessage : общий ответ для подтверждения действий
type ResponseMessage struct {
	Response map[string]interface{} `json:"response,omitempty"`
}
