package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/recognition"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

const RecognizerKeyHeader = "X-Recognizer-Key"

// RecognizerKeyOrAdmin lets the recognition engine post with its shared key.
// Requests without the header fall through to the admin access token checks.
func RecognizerKeyOrAdmin(apiKey string, ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		admin := jwtauth.Verifier(ja)(AuthRequired(AdminOnly(next)))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(RecognizerKeyHeader)
			if key == "" {
				admin.ServeHTTP(w, r)
				return
			}

			if apiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				response.HandleError(w, recognition.ErrInvalidRecognizerKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
