package util

import (
	"dms-web-server/internal/model"
	requestresponse "dms-web-server/internal/model/requestresponse"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := requestresponse.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

// HandleValidationErrors : отдаёт 400 с ошибками по полям формы
func HandleValidationErrors(w http.ResponseWriter, fields []model.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	resp := requestresponse.ValidationErrorResponse{
		Error:  "validation failed",
		Fields: fields,
	}

	json.NewEncoder(w).Encode(resp)
}
