package security

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/repository"
	"dms-web-server/internal/util"
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

type Claims struct {
	UserUUID    string `json:"user_uuid"`
	Username    string `json:"username"`
	SessionUUID string `json:"session_uuid"`
	IsStaff     bool   `json:"is_staff,omitempty"`
	jwt.RegisteredClaims
}

// SessionService : выпускает и проверяет сессионные токены.
// Токен кладётся в HTTP-only cookie, сама сессия живёт в БД и отзывается
// при logout.
type SessionService struct {
	*config.SessionConfig
}

func NewSessionService(cfg *config.SessionConfig) *SessionService {
	return &SessionService{cfg}
}

func (service *SessionService) GenerateSessionToken(user *model.User) (string, *model.Session, error) {
	timeDuration, err := time.ParseDuration(service.SessionTTL)
	if err != nil {
		return "", nil, util.LogError("ошибка парсинга TTL сессии", err)
	}

	session := &model.Session{
		UUID:     uuid.New().String(),
		UserUUID: user.UUID,
		ExpireAt: time.Now().Add(timeDuration),
	}

	claims := Claims{
		UserUUID:    user.UUID,
		Username:    user.Username,
		SessionUUID: session.UUID,
		IsStaff:     user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "dms-web-server",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenStr, err := jwtToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", nil, util.LogError("ошибка подписи токена", err)
	}

	return tokenStr, session, nil
}

func (service *SessionService) ValidateToken(jwtTokenStr string, secretKey []byte) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil || jwtToken.Valid == false {
		return nil, util.LogError("невалидный токен", err)
	}

	return claims, nil
}

// SessionMiddleware : проверка аутентификации. Токен берётся из cookie,
// для API-клиентов поддерживается и заголовок Authorization: Bearer.
// Браузерные запросы без сессии перенаправляются на /login, остальные
// получают 401.
func SessionMiddleware(secretKey []byte, sessionRepository *repository.SessionRepository, sessionService *SessionService, cookieName string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(secretKey, sessionRepository, sessionService, cookieName, next))
	}
}

func handleAuthentication(secretKey []byte, sessionRepository *repository.SessionRepository, sessionService *SessionService, cookieName string, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		token := tokenFromRequest(request, cookieName)
		if token == "" {
			rejectUnauthenticated(writer, request)
			return
		}

		claims, err := sessionService.ValidateToken(token, secretKey)
		if err != nil {
			log.Printf("невалидный токен: %v", err)
			rejectUnauthenticated(writer, request)
			return
		}

		session, err := sessionRepository.FindByUUID(request.Context(), claims.SessionUUID)
		if err != nil {
			log.Printf("сессия не найдена: %v", err)
			rejectUnauthenticated(writer, request)
			return
		}

		if session.RevokedAt != nil {
			log.Printf("сессия была отозвана")
			rejectUnauthenticated(writer, request)
			return
		}

		if time.Now().After(session.ExpireAt) {
			log.Printf("сессия истекла")
			rejectUnauthenticated(writer, request)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
		next.ServeHTTP(writer, req)
	}
}

func tokenFromRequest(request *http.Request, cookieName string) string {
	if cookie, err := request.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authorizationHeader := request.Header.Get("Authorization")
	if strings.HasPrefix(authorizationHeader, "Bearer ") {
		return strings.TrimPrefix(authorizationHeader, "Bearer ")
	}

	return ""
}

// rejectUnauthenticated : браузер отправляем на форму логина, JSON-клиенту
// отвечаем 401
func rejectUnauthenticated(writer http.ResponseWriter, request *http.Request) {
	if strings.Contains(request.Header.Get("Accept"), "text/html") {
		http.Redirect(writer, request, "/login", http.StatusFound)
		return
	}
	util.HandleError(writer, "не авторизован", http.StatusUnauthorized)
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}
