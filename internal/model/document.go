package model

import (
	"io"
	"time"
)

type Document struct {
	UUID             string     `db:"uuid" json:"uuid"`
	Title            string     `db:"title" json:"title"`
	Description      string     `db:"description" json:"description"`
	FilenameOriginal string     `db:"filename_original" json:"filename_original"`
	StoragePath      string     `db:"storage_path" json:"storage_path"`
	UploadedBy       *string    `db:"uploaded_by" json:"uploaded_by,omitempty"`
	UploadedAt       time.Time  `db:"uploaded_at" json:"uploaded_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
	FileSize         int64      `db:"file_size" json:"file_size"`
	PagesCount       int        `db:"pages_count" json:"pages_count"`
	ViewsCount       int        `db:"views_count" json:"views_count"`
	DownloadsCount   int        `db:"downloads_count" json:"downloads_count"`
}

// Действия, фиксируемые в журнале доступа. Закрытый набор.
const (
	ActionView     = "view"
	ActionDownload = "download"
	ActionPrint    = "print"
	ActionUpload   = "upload"
	ActionDelete   = "delete"
)

// AccessLogEntry : неизменяемая запись журнала доступа к документу.
// Записи только добавляются, пути обновления нет. При удалении документа
// его записи удаляются каскадно на уровне БД.
type AccessLogEntry struct {
	UUID         string    `db:"uuid" json:"uuid"`
	DocumentUUID string    `db:"document_uuid" json:"document_uuid"`
	UserUUID     *string   `db:"user_uuid" json:"user_uuid,omitempty"`
	Action       string    `db:"action" json:"action"`
	Timestamp    time.Time `db:"timestamp" json:"timestamp"`
	IPAddress    string    `db:"ip_address" json:"ip_address,omitempty"`
}

// UploadInput : типизированные поля формы загрузки. Валидатор работает
// только с этой структурой, без рефлексии по модели.
type UploadInput struct {
	Title       string
	Description string
	Filename    string
	Size        int64
}

// FileStream : открытый файл документа для отдачи клиенту.
// Закрыть Content обязан вызывающий.
type FileStream struct {
	Document    *Document
	Content     io.ReadCloser
	ContentType string
}

// FieldError : ошибка валидации по конкретному полю формы загрузки
type FieldError struct {
	Field   string `json:"field" example:"file"`
	Message string `json:"message" example:"must be PDF or image"`
}

// Capabilities : какие действия над документами доступны текущему
// пользователю; отдаётся вместе со списком и деталями документа,
// чтобы клиент мог скрывать недоступные кнопки
type Capabilities struct {
	CanAdd    bool `json:"can_add"`
	CanDelete bool `json:"can_delete"`
	CanPrint  bool `json:"can_print"`
}
