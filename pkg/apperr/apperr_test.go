package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{NotFound("user 3 not found"), http.StatusNotFound},
		{Unauthenticated("bad credentials"), http.StatusUnauthorized},
		{Forbidden("admin only"), http.StatusForbidden},
		{Validation("invalid", map[string]string{"email": "required"}), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("service: %w", NotFound("book 1 not found")), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), "%v", tc.err)
	}
}

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("repo: %w", NotFound("user 9 not found"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrForbidden)
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("unique constraint")
	err := Wrap(KindValidation, "email already registered", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "email already registered: unique constraint", err.Error())
}

func TestPublicMessage_HidesInternal(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(errors.New("dial tcp: refused")))
	assert.Equal(t, "internal server error", PublicMessage(Wrap(KindInternal, "db down", nil)))
	assert.Equal(t, "book 4 not found", PublicMessage(NotFound("book 4 not found")))
}

func TestFieldErrors(t *testing.T) {
	err := fmt.Errorf("x: %w", Validation("invalid", map[string]string{"title": "required"}))
	assert.Equal(t, map[string]string{"title": "required"}, FieldErrors(err))
	assert.Nil(t, FieldErrors(errors.New("plain")))
}
