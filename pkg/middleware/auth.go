// Package middleware provides the HTTP middleware for bookshelf: credential
// checks, request logging, panic recovery, CORS and request bounds.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"github.com/shashiranjanraj/bookshelf/pkg/response"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID  uint
	Email   string
	IsAdmin bool
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromCtx returns the principal an auth middleware stored on ctx.
func PrincipalFromCtx(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// PasswordVerifier resolves a principal from an email and password.
type PasswordVerifier func(ctx context.Context, email, password string) (Principal, error)

// TokenVerifier resolves a principal from a bearer token.
type TokenVerifier func(ctx context.Context, token string) (Principal, error)

// BasicAuth requires an `Authorization: Basic` header whose credentials
// verify passes.
func BasicAuth(verify PasswordVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, password, ok := r.BasicAuth()
			if !ok || email == "" {
				response.Unauthorized(w, "Basic", "")
				return
			}
			p, err := verify(r.Context(), email, password)
			if err != nil {
				deny(w, r, "Basic", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// TokenAuth requires an `Authorization: Bearer` header whose token verify
// accepts.
func TokenAuth(verify TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.Unauthorized(w, "Bearer", "")
				return
			}
			p, err := verify(r.Context(), token)
			if err != nil {
				deny(w, r, "Bearer", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func deny(w http.ResponseWriter, r *http.Request, scheme string, err error) {
	if apperr.KindOf(err) == apperr.KindUnauthenticated {
		response.Unauthorized(w, scheme, apperr.PublicMessage(err))
		return
	}
	response.FromError(w, r, err)
}
