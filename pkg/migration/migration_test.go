package migration

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type note struct {
	ID   uint
	Body string
}

type createNotes struct{}

func (createNotes) Up(db *gorm.DB) error   { return db.Migrator().CreateTable(&note{}) }
func (createNotes) Down(db *gorm.DB) error { return db.Migrator().DropTable(&note{}) }

type failing struct{}

func (failing) Up(*gorm.DB) error   { return errors.New("boom") }
func (failing) Down(*gorm.DB) error { return nil }

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRunner_RunRollbackStatus(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer
	r := NewWith(db, &out, []Entry{{Name: "20260101000000_create_notes", Migration: createNotes{}}})

	require.NoError(t, r.Run())
	assert.True(t, db.Migrator().HasTable(&note{}))
	assert.Contains(t, out.String(), "Migrated:  20260101000000_create_notes")

	rows, err := r.Status()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Ran)
	assert.Equal(t, 1, rows[0].Batch)

	out.Reset()
	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "Nothing to migrate.")

	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable(&note{}))

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	out.Reset()
	require.NoError(t, r.Rollback())
	assert.Contains(t, out.String(), "Nothing to roll back.")
}

func TestRunner_FailedMigrationIsNotRecorded(t *testing.T) {
	db := openDB(t)
	r := NewWith(db, nil, []Entry{
		{Name: "20260101000001_broken", Migration: failing{}},
		{Name: "20260101000000_create_notes", Migration: createNotes{}},
	})

	err := r.Run()
	require.ErrorContains(t, err, "20260101000001_broken up: boom")

	rows, err := r.Status()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "20260101000000_create_notes", rows[0].Name)
	assert.True(t, rows[0].Ran)
	assert.False(t, rows[1].Ran)
}

func TestRunner_RollbackUnknown(t *testing.T) {
	db := openDB(t)
	require.NoError(t, NewWith(db, nil, []Entry{{Name: "a", Migration: createNotes{}}}).Run())

	err := NewWith(db, nil, nil).Rollback()
	assert.ErrorIs(t, err, ErrUnknownMigration)
}

func TestRunner_PrintStatus(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer
	r := NewWith(db, &out, []Entry{{Name: "a", Migration: createNotes{}}})
	require.NoError(t, r.PrintStatus())
	assert.Contains(t, out.String(), "Pending")
}
