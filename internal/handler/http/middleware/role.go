package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequirePermission lets the request through when the token's role grants
// permission. SYSTEM_ADMIN is granted everything.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			role, _ := claims["role"].(string)
			if !user.HasPermission(user.Role(role), permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: '%s' requires %s", role, permission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
