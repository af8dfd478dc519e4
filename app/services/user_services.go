package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"github.com/shashiranjanraj/bookshelf/pkg/auth"
	"github.com/shashiranjanraj/bookshelf/pkg/logger"
	"github.com/shashiranjanraj/bookshelf/pkg/validate"
)

// UserStore persists users.
type UserStore interface {
	All(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id uint) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uint, mutate func(*models.User) error) (models.User, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

// CreateUserInput is the body of POST /user.
type CreateUserInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserInput is the body of PUT /user/{id}. Password is re-hashed only
// when sent, and may not be blank when it is.
type UpdateUserInput struct {
	Email    string  `json:"email"    validate:"required"`
	Password *string `json:"password"`
}

type UserService struct {
	users      UserStore
	bcryptCost int
}

// NewUserService hashes passwords at bcryptCost; zero means bcrypt's default.
func NewUserService(users UserStore, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{users: users, bcryptCost: bcryptCost}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.All(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (models.User, error) {
	return s.users.FindByID(ctx, id)
}

// Create registers a new user with a hashed password.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (models.User, error) {
	return s.create(ctx, in, false)
}

// CreateAdmin is Create for an account that starts out as an admin. The
// flag is written with the row, so a failure leaves no account behind.
func (s *UserService) CreateAdmin(ctx context.Context, in CreateUserInput) (models.User, error) {
	return s.create(ctx, in, true)
}

func (s *UserService) create(ctx context.Context, in CreateUserInput, admin bool) (models.User, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.User{}, apperr.Validation("invalid user", errs)
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{Email: in.Email, Password: hash, IsAdmin: admin}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}
	logger.WithCtx(ctx).Info("user created", "user_id", user.ID, "admin", admin)
	return user, nil
}

// Update overwrites the user's email, and its password when one is sent.
func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (models.User, error) {
	errs := validate.Struct(in)
	if in.Password != nil && strings.TrimSpace(*in.Password) == "" {
		errs["password"] = "The password field is required."
	}
	if validate.HasErrors(errs) {
		return models.User{}, apperr.Validation("invalid user", errs)
	}
	var hash string
	if in.Password != nil {
		h, err := s.hash(*in.Password)
		if err != nil {
			return models.User{}, err
		}
		hash = h
	}
	return s.users.Update(ctx, id, func(u *models.User) error {
		u.Email = in.Email
		if hash != "" {
			u.Password = hash
		}
		return nil
	})
}

// Delete removes the user together with every book it owns.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	removed, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("user deleted", "user_id", id, "books_removed", removed)
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	h, err := auth.HashPasswordWithCost(password, s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Validation("invalid user", map[string]string{"password": "must be at most 72 bytes"})
	}
	if err != nil {
		return "", fmt.Errorf("users: hash password: %w", err)
	}
	return h, nil
}
