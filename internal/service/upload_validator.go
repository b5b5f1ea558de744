package service

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ValidateUpload : чистая валидация формы загрузки, без I/O.
// Возвращает список ошибок по полям; пустой список — форма валидна.
// Политика по расширениям — PDF плюс изображения (актуальный вариант
// исходной системы, более ранний допускал только PDF).
func ValidateUpload(input model.UploadInput, cfg *config.UploadConfig) []model.FieldError {
	fieldErrors := []model.FieldError{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		fieldErrors = append(fieldErrors, model.FieldError{
			Field:   "title",
			Message: "обязательное поле",
		})
	} else if utf8.RuneCountInString(title) > 200 {
		fieldErrors = append(fieldErrors, model.FieldError{
			Field:   "title",
			Message: "не длиннее 200 символов",
		})
	}

	if input.Filename == "" {
		fieldErrors = append(fieldErrors, model.FieldError{
			Field:   "file",
			Message: "обязательное поле",
		})
		return fieldErrors
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Filename), "."))
	if extensionAllowed(ext, cfg.AllowedExtensions) == false {
		fieldErrors = append(fieldErrors, model.FieldError{
			Field:   "file",
			Message: "must be PDF or image",
		})
	}

	if input.Size > cfg.MaxSizeBytes {
		fieldErrors = append(fieldErrors, model.FieldError{
			Field:   "file",
			Message: "exceeds 10MB",
		})
	}

	return fieldErrors
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(ext, a) {
			return true
		}
	}
	return false
}
