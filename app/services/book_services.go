package services

import (
	"context"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"github.com/shashiranjanraj/bookshelf/pkg/logger"
	"github.com/shashiranjanraj/bookshelf/pkg/validate"
)

// BookStore persists books.
type BookStore interface {
	All(ctx context.Context) ([]models.Book, error)
	FindByID(ctx context.Context, id uint) (models.Book, error)
	ByUser(ctx context.Context, userID uint) ([]models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, id uint, mutate func(*models.Book) error) (models.Book, error)
	Delete(ctx context.Context, id uint) error
}

// BookInput is the body of POST /book and PUT /book/{id}. Every field must
// be present on create; an update overwrites only the fields it carries.
type BookInput struct {
	Title   *string `json:"title"   validate:"required"`
	Author  *string `json:"author"  validate:"required"`
	Pages   *int    `json:"pages"   validate:"required"`
	Summary *string `json:"summary" validate:"required"`
	Img     *string `json:"img"     validate:"required"`
	Subject *string `json:"subject" validate:"required"`
	UserID  *uint   `json:"user_id" validate:"required"`
}

func (in BookInput) apply(b *models.Book) {
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Author != nil {
		b.Author = *in.Author
	}
	if in.Pages != nil {
		b.Pages = *in.Pages
	}
	if in.Summary != nil {
		b.Summary = *in.Summary
	}
	if in.Img != nil {
		b.Img = *in.Img
	}
	if in.Subject != nil {
		b.Subject = *in.Subject
	}
	if in.UserID != nil {
		b.UserID = *in.UserID
	}
}

type BookService struct {
	books BookStore
}

func NewBookService(books BookStore) *BookService {
	return &BookService{books: books}
}

func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	return s.books.All(ctx)
}

func (s *BookService) Get(ctx context.Context, id uint) (models.Book, error) {
	return s.books.FindByID(ctx, id)
}

// BooksByUser lists the books owned by userID; an unknown user is not-found.
func (s *BookService) BooksByUser(ctx context.Context, userID uint) ([]models.Book, error) {
	return s.books.ByUser(ctx, userID)
}

// Create stores a new book. The owner must exist.
func (s *BookService) Create(ctx context.Context, in BookInput) (models.Book, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Book{}, apperr.Validation("invalid book", errs)
	}
	var book models.Book
	in.apply(&book)
	if err := s.books.Create(ctx, &book); err != nil {
		return models.Book{}, err
	}
	logger.WithCtx(ctx).Info("book created", "book_id", book.ID, "user_id", book.UserID)
	return book, nil
}

func (s *BookService) Update(ctx context.Context, id uint, in BookInput) (models.Book, error) {
	return s.books.Update(ctx, id, func(b *models.Book) error {
		in.apply(b)
		return nil
	})
}

func (s *BookService) Delete(ctx context.Context, id uint) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("book deleted", "book_id", id)
	return nil
}
