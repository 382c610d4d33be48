package middleware

import (
	"net/http"

	"github.com/abdelmaha121/sas/api/responses"
	"github.com/abdelmaha121/sas/pkg/enums"
	pkgerrors "github.com/abdelmaha121/sas/pkg/errors"
	"github.com/abdelmaha121/sas/pkg/logger"
)

// RequireRole rejects callers whose role is not in the allowed set. Admins
// always pass.
func RequireRole(logg *logger.Logger, roles ...enums.Role) func(http.Handler) http.Handler {
	allowed := map[enums.Role]struct{}{}
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity.Role.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := allowed[identity.Role]; !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
