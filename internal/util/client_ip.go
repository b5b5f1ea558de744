package util

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP : адрес клиента для журнала доступа. Берём первый элемент
// X-Forwarded-For (сервер стоит за reverse proxy), иначе RemoteAddr.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
