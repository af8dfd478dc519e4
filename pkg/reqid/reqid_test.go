package reqid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, incoming string) (seen string, rec *httptest.ResponseRecorder) {
	t.Helper()
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromCtx(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if incoming != "" {
		req.Header.Set(Header, incoming)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func TestMiddleware_Generates(t *testing.T) {
	seen, rec := serve(t, "")
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(Header))
}

func TestMiddleware_HonoursUpstream(t *testing.T) {
	seen, rec := serve(t, "gateway-123")
	assert.Equal(t, "gateway-123", seen)
	assert.Equal(t, "gateway-123", rec.Header().Get(Header))
}

func TestMiddleware_RejectsOversized(t *testing.T) {
	seen, _ := serve(t, strings.Repeat("a", maxLen+1))
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}
