// Package rbac guards routes by the privileges of the authenticated caller.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/bookshelf/pkg/middleware"
	"github.com/shashiranjanraj/bookshelf/pkg/response"
)

// Admin allows only principals flagged as admin. It must run after an auth
// middleware: a request with no principal is unauthenticated (401), a
// principal without the flag is forbidden (403).
func Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.PrincipalFromCtx(r.Context())
		if !ok {
			response.Unauthorized(w, "Bearer", "")
			return
		}
		if !p.IsAdmin {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
