package security

import (
	"dms-web-server/internal/util"
	"context"
	"log"
	"net/http"
)

// PermissionChecker : кто умеет отвечать, есть ли у пользователя право.
// Локальный интерфейс, чтобы не тянуть сюда сервисный слой.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userUUID string, isStaff bool, code string) (bool, error)
}

// RequirePermission : шлагбаум перед обработчиком. Запрос без нужного
// права обрывается с 403 до какой-либо логики обработчика и до записи
// в журнал доступа.
func RequirePermission(checker PermissionChecker, code string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims, err := GetClaimsFromContext(request.Context())
			if err != nil || claims == nil {
				util.HandleError(writer, "не авторизован", http.StatusUnauthorized)
				return
			}

			allowed, err := checker.HasPermission(request.Context(), claims.UserUUID, claims.IsStaff, code)
			if err != nil {
				log.Printf("ошибка проверки права %s: %v", code, err)
				util.HandleError(writer, "внутренняя ошибка сервера", http.StatusInternalServerError)
				return
			}

			if allowed == false {
				util.HandleError(writer, "доступ запрещён", http.StatusForbidden)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
