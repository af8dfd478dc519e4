// Package orm holds the gorm helpers shared by the repositories: context
// bound transactions, row locking where the dialect has it, and translation
// of driver errors into apperr kinds.
package orm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tx runs fn in a transaction bound to ctx. fn's error rolls back.
func Tx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// ForUpdate adds SELECT ... FOR UPDATE on dialects that support it. SQLite
// serialises writers on its own and SQL Server uses a different syntax, so
// both are left unlocked.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	switch tx.Dialector.Name() {
	case "postgres", "mysql":
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	default:
		return tx
	}
}

// First loads the first row matching conds into dest. A missing row becomes
// an apperr not-found error naming what.
func First(tx *gorm.DB, dest interface{}, what string, conds ...interface{}) error {
	err := tx.First(dest, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(what + " not found")
	}
	if err != nil {
		return fmt.Errorf("orm: load %s: %w", what, err)
	}
	return nil
}

// Exists reports whether any row of model matches query.
func Exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsUniqueViolation reports whether err is a unique constraint failure on
// any supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"unique constraint failed",    // sqlite
		"duplicate key value",         // postgres
		"duplicate entry",             // mysql
		"cannot insert duplicate key", // sqlserver
		"violation of unique key",     // sqlserver
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign key failure on any
// supported driver.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"foreign key constraint failed",   // sqlite
		"violates foreign key constraint", // postgres
		"a foreign key constraint fails",  // mysql
		"conflicted with the foreign key", // sqlserver
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
