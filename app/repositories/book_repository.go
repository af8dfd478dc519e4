package repositories

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"github.com/shashiranjanraj/bookshelf/pkg/orm"
	"gorm.io/gorm"
)

// BookRepository persists books.
type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) All(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("books: list: %w", err)
	}
	return books, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id uint) (models.Book, error) {
	var book models.Book
	err := orm.First(r.db.WithContext(ctx), &book, fmt.Sprintf("book %d", id), id)
	return book, err
}

// ByUser returns the books owned by userID. An unknown user is not-found,
// a known user with no books is an empty list.
func (r *BookRepository) ByUser(ctx context.Context, userID uint) ([]models.Book, error) {
	var books []models.Book
	err := orm.Tx(ctx, r.db, func(tx *gorm.DB) error {
		if err := requireOwner(tx, userID, apperr.NotFound(fmt.Sprintf("user %d not found", userID))); err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Find(&books).Error
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// Create inserts book. The owner must exist.
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	return orm.Tx(ctx, r.db, func(tx *gorm.DB) error {
		if err := requireOwner(tx, book.UserID, unknownOwner(book.UserID)); err != nil {
			return err
		}
		if err := tx.Create(book).Error; err != nil {
			return translateBookWrite(err, book.UserID)
		}
		return nil
	})
}

// Update loads the book under a row lock, applies mutate and saves it.
func (r *BookRepository) Update(ctx context.Context, id uint, mutate func(*models.Book) error) (models.Book, error) {
	var book models.Book
	err := orm.Tx(ctx, r.db, func(tx *gorm.DB) error {
		if err := orm.First(orm.ForUpdate(tx), &book, fmt.Sprintf("book %d", id), id); err != nil {
			return err
		}
		if err := mutate(&book); err != nil {
			return err
		}
		if err := requireOwner(tx, book.UserID, unknownOwner(book.UserID)); err != nil {
			return err
		}
		if err := tx.Save(&book).Error; err != nil {
			return translateBookWrite(err, book.UserID)
		}
		return nil
	})
	return book, err
}

func (r *BookRepository) Delete(ctx context.Context, id uint) error {
	return orm.Tx(ctx, r.db, func(tx *gorm.DB) error {
		var book models.Book
		if err := orm.First(orm.ForUpdate(tx), &book, fmt.Sprintf("book %d", id), id); err != nil {
			return err
		}
		if err := tx.Delete(&book).Error; err != nil {
			return fmt.Errorf("books: delete %d: %w", id, err)
		}
		return nil
	})
}

func requireOwner(tx *gorm.DB, userID uint, missing error) error {
	ok, err := orm.Exists(tx, &models.User{}, "user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("books: check owner: %w", err)
	}
	if !ok {
		return missing
	}
	return nil
}

func unknownOwner(userID uint) error {
	return apperr.Validation(fmt.Sprintf("user %d does not exist", userID),
		map[string]string{"user_id": "unknown user"})
}

func translateBookWrite(err error, userID uint) error {
	if orm.IsForeignKeyViolation(err) {
		return unknownOwner(userID)
	}
	return fmt.Errorf("books: write: %w", err)
}
