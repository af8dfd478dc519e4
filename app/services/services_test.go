package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/app/repositories"
	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"github.com/shashiranjanraj/bookshelf/pkg/auth"
	"github.com/shashiranjanraj/bookshelf/pkg/testkit"
)

type lookupMock struct{ mock.Mock }

func (m *lookupMock) FindByID(ctx context.Context, id uint) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *lookupMock) FindByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := auth.HashPasswordWithCost(pw, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	users := new(lookupMock)
	ann := models.User{ID: 7, Email: "a@x.com", Password: hashed(t, "pw")}
	users.On("FindByEmail", ctx, "a@x.com").Return(ann, nil)
	users.On("FindByEmail", ctx, "ghost@x.com").Return(models.User{}, apperr.NotFound("user not found"))

	svc := NewAuthService(users, auth.NewTokens("k", time.Hour))

	got, err := svc.Authenticate(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.EqualValues(t, 7, got.ID)

	_, err = svc.Authenticate(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, "ghost@x.com", "pw")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)

	users.AssertExpectations(t)
}

func TestAuthService_AuthenticateToken(t *testing.T) {
	ctx := context.Background()
	users := new(lookupMock)
	users.On("FindByID", ctx, uint(3)).Return(models.User{ID: 3, IsAdmin: true}, nil)
	users.On("FindByID", ctx, uint(4)).Return(models.User{}, apperr.NotFound("user 4 not found"))

	svc := NewAuthService(users, auth.NewTokens("k", time.Hour))

	tok, exp, err := svc.IssueToken(models.User{ID: 3})
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	got, err := svc.AuthenticateToken(ctx, tok)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	deleted, _, err := svc.IssueToken(models.User{ID: 4})
	require.NoError(t, err)
	_, err = svc.AuthenticateToken(ctx, deleted)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = svc.AuthenticateToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func newUserService(t *testing.T) (*UserService, *repositories.UserRepository) {
	t.Helper()
	repo := repositories.NewUserRepository(testkit.NewDB(t))
	return NewUserService(repo, bcrypt.MinCost), repo
}

func TestUserService_CreateHashesPassword(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserService(t)

	u, err := svc.Create(ctx, CreateUserInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	require.NotZero(t, u.ID)

	stored, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw", stored.Password)
	assert.True(t, auth.CheckPassword(stored.Password, "pw"))
	assert.False(t, stored.IsAdmin)
}

func TestUserService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	_, err := svc.Create(ctx, CreateUserInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, apperr.FieldErrors(err), "password")

	_, err = svc.Create(ctx, CreateUserInput{Password: "pw"})
	assert.Contains(t, apperr.FieldErrors(err), "email")

	_, err = svc.Create(ctx, CreateUserInput{Email: "a@x.com", Password: strings.Repeat("p", 73)})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, apperr.FieldErrors(err), "password")
}

func TestUserService_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	_, err := svc.Create(ctx, CreateUserInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateUserInput{Email: "a@x.com", Password: "other"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserService(t)
	u, err := svc.Create(ctx, CreateUserInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, u.ID, UpdateUserInput{Email: "b@x.com"})
	require.NoError(t, err)
	stored, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", stored.Email)
	assert.True(t, auth.CheckPassword(stored.Password, "pw"), "password kept when absent")

	_, err = svc.Update(ctx, u.ID, UpdateUserInput{Email: "b@x.com", Password: ptr("new")})
	require.NoError(t, err)
	stored, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.Password, "new"))

	_, err = svc.Update(ctx, 999, UpdateUserInput{Email: "c@x.com"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Update(ctx, u.ID, UpdateUserInput{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUserService_UpdateRejectsBlankPassword(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserService(t)
	u, err := svc.Create(ctx, CreateUserInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	for _, blank := range []string{"", "   "} {
		_, err = svc.Update(ctx, u.ID, UpdateUserInput{Email: "a@x.com", Password: ptr(blank)})
		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, map[string]string{"password": "The password field is required."}, apperr.FieldErrors(err))
	}

	stored, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.Password, "pw"))
	assert.False(t, auth.CheckPassword(stored.Password, ""))
}

func TestUserService_CreateAdmin(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserService(t)

	u, err := svc.CreateAdmin(ctx, CreateUserInput{Email: "root@x.com", Password: "pw"})
	require.NoError(t, err)
	stored, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin)

	plain, err := svc.Create(ctx, CreateUserInput{Email: "pleb@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.False(t, plain.IsAdmin)

	_, err = svc.CreateAdmin(ctx, CreateUserInput{Email: "long@x.com", Password: strings.Repeat("x", 73)})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = repo.FindByEmail(ctx, "long@x.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)
	u, err := svc.Create(ctx, CreateUserInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), apperr.ErrNotFound)
	_, err = svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func fullBook(owner uint) BookInput {
	return BookInput{
		Title:   ptr("Dune"),
		Author:  ptr("Frank Herbert"),
		Pages:   ptr(412),
		Summary: ptr("Spice."),
		Img:     ptr("https://example.com/dune.png"),
		Subject: ptr("fiction"),
		UserID:  ptr(owner),
	}
}

func TestBookService(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	users := NewUserService(repositories.NewUserRepository(db), bcrypt.MinCost)
	books := NewBookService(repositories.NewBookRepository(db))

	owner, err := users.Create(ctx, CreateUserInput{Email: "o@x.com", Password: "pw"})
	require.NoError(t, err)

	t.Run("create requires every field", func(t *testing.T) {
		in := fullBook(owner.ID)
		in.Summary, in.UserID = nil, nil
		_, err := books.Create(ctx, in)
		assert.ErrorIs(t, err, apperr.ErrValidation)
		fields := apperr.FieldErrors(err)
		assert.Contains(t, fields, "summary")
		assert.Contains(t, fields, "user_id")
	})

	t.Run("unknown owner is rejected", func(t *testing.T) {
		_, err := books.Create(ctx, fullBook(owner.ID+100))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	var bookID uint
	t.Run("create and get", func(t *testing.T) {
		b, err := books.Create(ctx, fullBook(owner.ID))
		require.NoError(t, err)
		bookID = b.ID
		got, err := books.Get(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", got.Title)
		assert.Equal(t, 412, got.Pages)
		assert.Equal(t, owner.ID, got.UserID)
	})

	t.Run("update overwrites sent fields", func(t *testing.T) {
		_, err := books.Update(ctx, bookID, BookInput{Title: ptr("Dune Messiah"), Pages: ptr(0)})
		require.NoError(t, err)
		got, err := books.Get(ctx, bookID)
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", got.Title)
		assert.Equal(t, 0, got.Pages)
		assert.Equal(t, "Frank Herbert", got.Author)
	})

	t.Run("by user", func(t *testing.T) {
		owned, err := books.BooksByUser(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, owned, 1)
		_, err = books.BooksByUser(ctx, owner.ID+100)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, books.Delete(ctx, bookID))
		assert.ErrorIs(t, books.Delete(ctx, bookID), apperr.ErrNotFound)
	})
}
