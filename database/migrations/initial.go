package migrations

import (
	"errors"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_books_table", &CreateBooksTable{})
}

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}

// CreateBooksTable also creates the books.user_id → users.user_id foreign
// key with ON DELETE CASCADE.
type CreateBooksTable struct{}

func (m *CreateBooksTable) Up(db *gorm.DB) error {
	// Resolving users first registers the users→books relation, which is
	// what carries the constraint onto the books table.
	if !db.Migrator().HasTable(&models.User{}) {
		return errors.New("create books: users table missing")
	}
	return db.Migrator().CreateTable(&models.Book{})
}

func (m *CreateBooksTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Book{})
}
