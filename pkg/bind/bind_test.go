package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bookshelf/pkg/bind"
)

type login struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

func TestJSON_Valid(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com","password":"pw"}`))
	var in login
	errs, err := bind.JSON(r, &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "a@x.com", in.Email)
}

func TestJSON_ValidationErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com"}`))
	errs, err := bind.JSON(r, &login{})
	require.NoError(t, err)
	assert.Contains(t, errs, "password")
}

func TestJSON_Malformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	_, err := bind.JSON(r, &login{})
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestJSON_Empty(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	_, err := bind.JSON(r, &login{})
	assert.ErrorIs(t, err, bind.ErrEmptyBody)
}

func TestJSON_TooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"`+strings.Repeat("a", 64)+`"}`))
	r.Body = http.MaxBytesReader(rec, r.Body, 16)
	_, err := bind.JSON(r, &login{})
	assert.ErrorContains(t, err, "too large")
}
