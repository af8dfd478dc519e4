// Package ctx provides a gin.Context-inspired request context for bookshelf
// handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helpers for params, binding and replies:
//
//	func ShowBook(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    if !ok {
//	        return // 400 already sent
//	    }
//	    ...
//	    c.JSON(http.StatusOK, book.View())
//	}
//
//	router.Get("/book/{id}", "books.show", ctx.Wrap(ShowBook))
package ctx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/bookshelf/pkg/bind"
	"github.com/shashiranjanraj/bookshelf/pkg/middleware"
	"github.com/shashiranjanraj/bookshelf/pkg/response"
	"github.com/shashiranjanraj/bookshelf/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // 0 until a response is written
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/user/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a numeric path parameter. On failure it answers 400 and
// returns false.
func (c *Context) ParamUint(key string) (uint, bool) {
	raw := c.Param(key)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 || uint64(uint(n)) != n {
		c.Error(http.StatusBadRequest, fmt.Sprintf("invalid %s %q", key, raw))
		return 0, false
	}
	return uint(n), true
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Principal returns the caller resolved by an auth middleware.
func (c *Context) Principal() (middleware.Principal, bool) {
	return middleware.PrincipalFromCtx(c.R.Context())
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation. On failure
// it answers 400 and returns false.
//
//	var input CreateUserInput
//	if !c.BindJSON(&input) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// DecodeJSON decodes the JSON body into dest without validating it, for
// inputs whose rules depend on the operation. On failure it answers 400 and
// returns false.
func (c *Context) DecodeJSON(dest any) bool {
	if err := bind.Decode(c.R, dest); err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v as the response body.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// String writes a plain-text response.
func (c *Context) String(code int, format string, args ...any) {
	c.status = code
	response.Text(c.W, code, format, args...)
}

// OK answers 200 "success".
func (c *Context) OK() {
	c.status = http.StatusOK
	response.OK(c.W)
}

// Error sends a JSON error envelope with the given status and message.
func (c *Context) Error(code int, message string) {
	c.status = code
	response.Error(c.W, code, message)
}

// ValidationError sends a 400 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.status = http.StatusBadRequest
	response.ValidationError(c.W, "", errs)
}

// Fail answers with the status and envelope err maps to.
func (c *Context) Fail(err error) {
	rec := &statusRecorder{ResponseWriter: c.W}
	response.FromError(rec, c.R, err)
	c.status = rec.status
}

// WrittenStatus returns the status code written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
