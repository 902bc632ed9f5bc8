package middleware

import (
	"net/http"
	"strconv"

	"github.com/ankudinovm/BDA-SlotService/internal/api/handlers"
)

const userIDHeader = "X-User-ID"

// Auth проверяет наличие корректного заголовка X-User-ID
// Аутентификация выполняется на API gateway, сюда приходит уже проверенный
// идентификатор - здесь только защита от прямых вызовов без заголовка
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(userIDHeader)
		if raw == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "требуется заголовок X-User-ID")
			return
		}

		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			handlers.RespondError(w, http.StatusUnauthorized, "некорректный заголовок X-User-ID")
			return
		}

		next.ServeHTTP(w, r)
	})
}
