package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/admin"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		adminID, ok := claims["admin_id"].(string)
		if !ok || adminID == "" {
			response.HandleError(w, admin.ErrNotAdmin)
			return
		}

		next.ServeHTTP(w, r)
	})
}
