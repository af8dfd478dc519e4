package testkit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/bookshelf/database/migrations"
	"github.com/shashiranjanraj/bookshelf/pkg/database"
	"github.com/shashiranjanraj/bookshelf/pkg/migration"
)

// NewDB returns a private in-memory SQLite database with every registered
// migration applied. It is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, migration.New(db, nil).Run())
	return db
}
