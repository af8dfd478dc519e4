// Package controllers holds the HTTP handlers. They translate requests into
// service calls and service results into responses, nothing more.
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/app/services"
	"github.com/shashiranjanraj/bookshelf/pkg/ctx"
	"github.com/shashiranjanraj/bookshelf/pkg/middleware"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// VerifyPassword adapts the auth service for middleware.BasicAuth.
func (a *AuthController) VerifyPassword(c context.Context, email, password string) (middleware.Principal, error) {
	u, err := a.auth.Authenticate(c, email, password)
	if err != nil {
		return middleware.Principal{}, err
	}
	return principalOf(u), nil
}

// VerifyToken adapts the auth service for middleware.TokenAuth.
func (a *AuthController) VerifyToken(c context.Context, token string) (middleware.Principal, error) {
	u, err := a.auth.AuthenticateToken(c, token)
	if err != nil {
		return middleware.Principal{}, err
	}
	return principalOf(u), nil
}

func principalOf(u models.User) middleware.Principal {
	return middleware.Principal{UserID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin}
}

// Login answers GET /login behind BasicAuth.
func (a *AuthController) Login(c *ctx.Context) {
	p, _ := c.Principal()
	c.String(http.StatusOK, "login successful for user id: %d", p.UserID)
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Token answers GET /token behind BasicAuth with a bearer token for the
// caller.
func (a *AuthController) Token(c *ctx.Context) {
	p, _ := c.Principal()
	token, exp, err := a.auth.IssueToken(models.User{ID: p.UserID})
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token, ExpiresAt: exp})
}
