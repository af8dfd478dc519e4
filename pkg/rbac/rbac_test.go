package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/bookshelf/pkg/middleware"
	"github.com/shashiranjanraj/bookshelf/pkg/rbac"
)

func TestAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := rbac.Admin(ok)

	cases := []struct {
		name      string
		principal *middleware.Principal
		want      int
	}{
		{"no principal", nil, http.StatusUnauthorized},
		{"regular user", &middleware.Principal{UserID: 1}, http.StatusForbidden},
		{"admin", &middleware.Principal{UserID: 2, IsAdmin: true}, http.StatusTeapot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/book/1", nil)
			if tc.principal != nil {
				req = req.WithContext(middleware.WithPrincipal(req.Context(), *tc.principal))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
