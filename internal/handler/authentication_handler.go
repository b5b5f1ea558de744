package handler

import (
	"dms-web-server/config"
	"dms-web-server/internal/model/requestresponse"
	"dms-web-server/internal/ports"
	"dms-web-server/internal/security"
	"dms-web-server/internal/util"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
	sessionCfg *config.SessionConfig
}

func NewAuthenticationHandler(
	authenticationService ports.AuthenticationService,
	sessionCfg *config.SessionConfig,
) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService, sessionCfg}
}

// Минимальная форма входа для внутреннего инструмента. Остальной интерфейс
// живёт в JSON, но точка входа должна открываться в браузере.
const loginFormHTML = `<!DOCTYPE html>
<html lang="ru">
<head><meta charset="utf-8"><title>Вход — документы</title></head>
<body>
<h1>Вход</h1>
<form method="post" action="/login">
  <label>Логин <input type="text" name="username" autofocus></label><br>
  <label>Пароль <input type="password" name="password"></label><br>
  <button type="submit">Войти</button>
</form>
</body>
</html>`

// LoginForm godoc
// @Summary Форма входа
// @Description Возвращает HTML-форму входа
// @Tags Authentication
// @Produce html
// @Success 200 {string} string "HTML форма"
// @Router /login [get]
func (h *AuthenticationHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(loginFormHTML))
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Принимает логин и пароль (JSON или form), ставит сессионную cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.LoginResponse "Успешная аутентификация"
// @Failure 400 {object} requestresponse.ErrorResponse "Пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверный логин или пароль"
// @Failure 403 {object} requestresponse.ErrorResponse "Учётная запись отключена"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, fromForm := decodeLoginRequest(r)
	if req.Username == "" || req.Password == "" {
		util.HandleError(w, "username и password обязательны", http.StatusBadRequest)
		return
	}

	tokenStr, user, err := h.AuthenticationService.Login(ctx, req.Username, req.Password, r.UserAgent(), util.ClientIP(r))
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "неверный логин или пароль"):
			util.HandleError(w, "неверный логин или пароль", http.StatusUnauthorized)
		case strings.Contains(err.Error(), "учётная запись отключена"):
			util.HandleError(w, "учётная запись отключена", http.StatusForbidden)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionCfg.CookieName,
		Value:    tokenStr,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionLifetime(h.sessionCfg)),
	})

	if fromForm {
		http.Redirect(w, r, "/documents", http.StatusFound)
		return
	}

	resp := requestresponse.LoginResponse{}
	resp.Response.UserUUID = user.UUID
	resp.Response.Username = user.Username

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Отзывает серверную сессию и сбрасывает cookie
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.LogoutResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.AuthenticationService.Logout(ctx, claims.SessionUUID); err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionCfg.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	resp := requestresponse.LogoutResponse{}
	resp.Response.Revoked = true

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// decodeLoginRequest : принимаем и JSON, и обычную HTML-форму.
// Второй результат — пришёл ли запрос из формы.
func decodeLoginRequest(r *http.Request) (requestresponse.LoginRequest, bool) {
	var req requestresponse.LoginRequest

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return requestresponse.LoginRequest{}, false
		}
		return req, false
	}

	if err := r.ParseForm(); err != nil {
		return requestresponse.LoginRequest{}, true
	}
	req.Username = r.PostFormValue("username")
	req.Password = r.PostFormValue("password")
	return req, true
}

func sessionLifetime(cfg *config.SessionConfig) time.Duration {
	lifetime, err := time.ParseDuration(cfg.SessionTTL)
	if err != nil {
		return 12 * time.Hour
	}
	return lifetime
}
