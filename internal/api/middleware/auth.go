package middleware

import (
	"net/http"
	"strings"

	"github.com/blaisecz/sleep-coach/pkg/problem"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// TokenVerifier resolves a bearer token to the user it was issued to.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// RequireUser admits requests whose bearer token belongs to the {userId}
// in the route.
func RequireUser(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				problem.Unauthorized("Missing bearer token").Write(w)
				return
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				problem.Unauthorized("Invalid or expired token").Write(w)
				return
			}

			userID, err := uuid.Parse(chi.URLParam(r, "userId"))
			if err != nil {
				problem.BadRequest("Invalid user ID format").Write(w)
				return
			}
			if subject != userID {
				problem.Forbidden("Token does not belong to this user").Write(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
