package ctx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	appctx "github.com/shashiranjanraj/bookshelf/pkg/ctx"
	"github.com/shashiranjanraj/bookshelf/pkg/middleware"
)

func TestWrapAndJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.JSON(http.StatusOK, map[string]any{"ok": true})
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) { c.OK() })(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "success" {
		t.Errorf("expected 200 success, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestParamUint(t *testing.T) {
	cases := map[string]int{
		"42":  http.StatusOK,
		"abc": http.StatusBadRequest,
		"-1":  http.StatusBadRequest,
		"0":   http.StatusBadRequest,
	}
	for raw, want := range cases {
		r := chi.NewRouter()
		r.Get("/user/{id}", appctx.Wrap(func(c *appctx.Context) {
			id, ok := c.ParamUint("id")
			if !ok {
				return
			}
			c.String(http.StatusOK, "%d", id)
		}))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/"+raw, nil))
		if rec.Code != want {
			t.Errorf("%s: expected %d, got %d", raw, want, rec.Code)
		}
	}
}

func TestBindJSONValid(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"email":"john@example.com","password":"pw"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Email    string `json:"email"    validate:"required"`
			Password string `json:"password" validate:"required"`
		}
		if !c.BindJSON(&input) {
			t.Error("expected BindJSON to succeed")
			return
		}
		if input.Email != "john@example.com" {
			t.Errorf("expected john@example.com, got %s", input.Email)
		}
		c.OK()
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("unexpected failure: %s", rec.Body.String())
	}
}

func TestBindJSONInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":""}`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Email string `json:"email" validate:"required"`
		}
		if c.BindJSON(&input) {
			t.Error("expected BindJSON to fail")
		}
	})(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email"`) {
		t.Errorf("expected field error, got %s", rec.Body.String())
	}
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	var status int
	appctx.Wrap(func(c *appctx.Context) {
		c.Fail(apperr.NotFound("book 9 not found"))
		status = c.WrittenStatus()
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusNotFound || status != http.StatusNotFound {
		t.Errorf("expected 404, got %d / %d", rec.Code, status)
	}
}

func TestPrincipal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithPrincipal(context.Background(), middleware.Principal{UserID: 5}))

	appctx.Wrap(func(c *appctx.Context) {
		p, ok := c.Principal()
		if !ok || p.UserID != 5 {
			t.Errorf("expected principal 5, got %+v %v", p, ok)
		}
	})(httptest.NewRecorder(), req)
}
