package requestresponse

// LoginRequest : тело запроса на аутентификацию (JSON или form)
type LoginRequest struct {
	Username string `json:"username" example:"employee1"`
	Password string `json:"password" example:"emp123"`
}

// LoginResponse : ответ на успешную аутентификацию
type LoginResponse struct {
	Response struct {
		UserUUID string `json:"user_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
		Username string `json:"username" example:"employee1"`
	} `json:"response"`
}

// LogoutResponse : ответ на завершение сессии
type LogoutResponse struct {
	Response struct {
		Revoked bool `json:"revoked" example:"true"`
	} `json:"response"`
}

// ErrorResponse : общий формат ошибки
type ErrorResponse struct {
	Error   string `json:"error" example:"Forbidden"`
	Message string `json:"message" example:"доступ запрещён"`
	Code    int    `json:"code" example:"403"`
}
