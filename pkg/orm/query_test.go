package orm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"github.com/shashiranjanraj/bookshelf/pkg/testkit"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm sentinel", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"sqlite", errors.New("UNIQUE constraint failed: users.email"), true},
		{"postgres", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`), true},
		{"mysql", errors.New("Error 1062 (23000): Duplicate entry 'a@x.com' for key 'users.idx_users_email'"), true},
		{"sqlserver insert", errors.New("mssql: Cannot insert duplicate key row in object 'dbo.users' with unique index 'idx_users_email'."), true},
		{"sqlserver constraint", errors.New("mssql: Violation of UNIQUE KEY constraint 'uq_email'."), true},
		{"foreign key is not unique", errors.New("FOREIGN KEY constraint failed"), false},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsUniqueViolation(tc.err))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sqlite", errors.New("FOREIGN KEY constraint failed"), true},
		{"postgres", errors.New(`ERROR: insert or update on table "books" violates foreign key constraint "fk_users_books" (SQLSTATE 23503)`), true},
		{"mysql", errors.New("Error 1452 (23000): Cannot add or update a child row: a foreign key constraint fails"), true},
		{"sqlserver", errors.New(`mssql: The INSERT statement conflicted with the FOREIGN KEY constraint "fk_users_books".`), true},
		{"wrapped", fmt.Errorf("books: write: %w", errors.New("FOREIGN KEY constraint failed")), true},
		{"unique is not foreign key", errors.New("UNIQUE constraint failed: users.email"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsForeignKeyViolation(tc.err))
		})
	}
}

// lockedSelect renders the SQL ForUpdate produces on db without running it.
func lockedSelect(db *gorm.DB) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var book models.Book
		return ForUpdate(tx).Where("book_id = ?", 1).Take(&book)
	})
}

func TestForUpdate_ByDialect(t *testing.T) {
	dry := &gorm.Config{DryRun: true, DisableAutomaticPing: true}

	pg, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=x password=x dbname=x sslmode=disable",
	}), dry)
	require.NoError(t, err)

	my, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "x:x@tcp(127.0.0.1:3306)/x",
		SkipInitializeWithVersion: true,
	}), dry)
	require.NoError(t, err)

	lite := testkit.NewDB(t)

	assert.True(t, strings.HasSuffix(lockedSelect(pg), "FOR UPDATE"), lockedSelect(pg))
	assert.True(t, strings.HasSuffix(lockedSelect(my), "FOR UPDATE"), lockedSelect(my))
	assert.NotContains(t, lockedSelect(lite), "FOR UPDATE")
}

func TestFirst(t *testing.T) {
	db := testkit.NewDB(t)

	var user models.User
	err := First(db, &user, "user 7", 7)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "user 7 not found", apperr.PublicMessage(err))

	require.NoError(t, db.Create(&models.User{Email: "a@x.com", Password: "h"}).Error)
	require.NoError(t, First(db, &user, "user 1", 1))
	assert.Equal(t, "a@x.com", user.Email)
}

func TestExists(t *testing.T) {
	db := testkit.NewDB(t)
	require.NoError(t, db.Create(&models.User{Email: "a@x.com", Password: "h"}).Error)

	ok, err := Exists(db, &models.User{}, "email = ?", "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(db, &models.User{}, "email = ?", "b@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTx_RollsBack(t *testing.T) {
	db := testkit.NewDB(t)
	boom := errors.New("boom")

	err := Tx(context.Background(), db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.User{Email: "a@x.com", Password: "h"}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}
