// Package services holds the business operations behind the HTTP handlers:
// credential checks, token issuance and the user/book resource contract.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"github.com/shashiranjanraj/bookshelf/pkg/auth"
	"github.com/shashiranjanraj/bookshelf/pkg/logger"
	"github.com/shashiranjanraj/bookshelf/pkg/metrics"
)

// UserLookup is the slice of the user store the auth service needs.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// AuthService resolves principals from passwords or bearer tokens.
type AuthService struct {
	users  UserLookup
	tokens *auth.Tokens
}

func NewAuthService(users UserLookup, tokens *auth.Tokens) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Authenticate checks email and password. Unknown emails and wrong
// passwords fail the same way.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			metrics.RecordAuth("password", false)
			return models.User{}, apperr.Unauthenticated("invalid credentials")
		}
		return models.User{}, err
	}
	if !auth.CheckPassword(user.Password, password) {
		metrics.RecordAuth("password", false)
		logger.WithCtx(ctx).Info("login rejected", "user_id", user.ID)
		return models.User{}, apperr.Unauthenticated("invalid credentials")
	}
	metrics.RecordAuth("password", true)
	return user, nil
}

// AuthenticateToken verifies token and reloads the user it names, so a
// token outliving its user is rejected.
func (s *AuthService) AuthenticateToken(ctx context.Context, token string) (models.User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		metrics.RecordAuth("token", false)
		logger.WithCtx(ctx).Debug("token rejected", "err", err)
		return models.User{}, apperr.Wrap(apperr.KindUnauthenticated, "invalid token", err)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			metrics.RecordAuth("token", false)
			return models.User{}, apperr.Unauthenticated("invalid token")
		}
		return models.User{}, err
	}
	metrics.RecordAuth("token", true)
	return user, nil
}

// IssueToken mints a bearer token for user.
func (s *AuthService) IssueToken(user models.User) (string, time.Time, error) {
	return s.tokens.Issue(user.ID)
}
