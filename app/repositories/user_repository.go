package repositories

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"github.com/shashiranjanraj/bookshelf/pkg/metrics"
	"github.com/shashiranjanraj/bookshelf/pkg/orm"
	"gorm.io/gorm"
)

// UserRepository persists users. It holds no state beyond the connection.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// All returns every user in store order.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	return users, nil
}

// FindByID returns the user with id or an apperr not-found error.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := orm.First(r.db.WithContext(ctx), &user, fmt.Sprintf("user %d", id), id)
	return user, err
}

// FindByEmail returns the user registered under email or an apperr
// not-found error.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := orm.First(r.db.WithContext(ctx).Where("email = ?", email), &user, "user")
	return user, err
}

// Create inserts user and assigns its ID. A taken email is a validation
// error.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return orm.Tx(ctx, r.db, func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, user.Email, 0); err != nil {
			return err
		}
		if err := tx.Create(user).Error; err != nil {
			return translateUserWrite(err)
		}
		return nil
	})
}

// Update loads the user under a row lock, applies mutate and saves it, all
// in one transaction.
func (r *UserRepository) Update(ctx context.Context, id uint, mutate func(*models.User) error) (models.User, error) {
	var user models.User
	err := orm.Tx(ctx, r.db, func(tx *gorm.DB) error {
		if err := orm.First(orm.ForUpdate(tx), &user, fmt.Sprintf("user %d", id), id); err != nil {
			return err
		}
		if err := mutate(&user); err != nil {
			return err
		}
		if err := ensureEmailFree(tx, user.Email, user.ID); err != nil {
			return err
		}
		if err := tx.Save(&user).Error; err != nil {
			return translateUserWrite(err)
		}
		return nil
	})
	return user, err
}

// Delete removes the user and every book it owns in a single transaction
// and reports how many books went with it.
func (r *UserRepository) Delete(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := orm.Tx(ctx, r.db, func(tx *gorm.DB) error {
		var user models.User
		if err := orm.First(orm.ForUpdate(tx), &user, fmt.Sprintf("user %d", id), id); err != nil {
			return err
		}

		res := tx.Where("user_id = ?", user.ID).Delete(&models.Book{})
		if res.Error != nil {
			return fmt.Errorf("users: delete books of %d: %w", id, res.Error)
		}
		removed = res.RowsAffected

		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("users: delete %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	metrics.CascadeDeletedBooks.Add(float64(removed))
	return removed, nil
}

// SetAdmin sets the admin flag on the user registered under email.
func (r *UserRepository) SetAdmin(ctx context.Context, email string, admin bool) (models.User, error) {
	var user models.User
	err := orm.Tx(ctx, r.db, func(tx *gorm.DB) error {
		if err := orm.First(orm.ForUpdate(tx).Where("email = ?", email), &user, "user "+email); err != nil {
			return err
		}
		user.IsAdmin = admin
		return tx.Model(&user).Update("is_admin", admin).Error
	})
	return user, err
}

func ensureEmailFree(tx *gorm.DB, email string, exceptID uint) error {
	taken, err := orm.Exists(tx, &models.User{}, "email = ? AND user_id <> ?", email, exceptID)
	if err != nil {
		return fmt.Errorf("users: check email: %w", err)
	}
	if taken {
		return emailTaken()
	}
	return nil
}

func emailTaken() error {
	return apperr.Validation("email already registered", map[string]string{"email": "already registered"})
}

func translateUserWrite(err error) error {
	if orm.IsUniqueViolation(err) {
		return emailTaken()
	}
	return fmt.Errorf("users: write: %w", err)
}
