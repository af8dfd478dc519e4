//go:build integration

package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bookshelf/app/models"
	_ "github.com/shashiranjanraj/bookshelf/database/migrations"
	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"github.com/shashiranjanraj/bookshelf/pkg/database"
	"github.com/shashiranjanraj/bookshelf/pkg/migration"
)

// newPostgres starts a throwaway postgres container and returns a migrated
// connection to it. Run with: go test -tags integration ./app/repositories/
func newPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	port, err := nat.NewPort("tcp", "5432")
	require.NoError(t, err)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{string(port)},
			Env: map[string]string{
				"POSTGRES_USER":     "bookshelf",
				"POSTGRES_PASSWORD": "bookshelf",
				"POSTGRES_DB":       "bookshelf",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(port),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)

	db, err := database.Open(database.Options{
		Driver: "postgres",
		DSN: fmt.Sprintf("host=%s port=%s user=bookshelf password=bookshelf dbname=bookshelf sslmode=disable",
			host, mapped.Port()),
		MaxOpenConns: 4,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, migration.New(db, nil).Run())
	return db
}

func TestPostgres_Repositories(t *testing.T) {
	db := newPostgres(t)
	ctx := context.Background()
	users, books := NewUserRepository(db), NewBookRepository(db)

	owner := seedUser(t, users, "owner@example.com")
	for _, title := range []string{"a", "b", "c"} {
		seedBook(t, books, owner.ID, title)
	}

	t.Run("duplicate email", func(t *testing.T) {
		err := users.Create(ctx, &models.User{Email: "owner@example.com", Password: "x"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("unknown owner", func(t *testing.T) {
		err := books.Create(ctx, &models.Book{Title: "orphan", UserID: 9999})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("update locks the row", func(t *testing.T) {
		owned, err := books.ByUser(ctx, owner.ID)
		require.NoError(t, err)
		require.NotEmpty(t, owned)
		got, err := books.Update(ctx, owned[0].ID, func(b *models.Book) error {
			b.Pages = 99
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 99, got.Pages)
	})

	t.Run("delete cascades", func(t *testing.T) {
		removed, err := users.Delete(ctx, owner.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 3, removed)

		var left int64
		require.NoError(t, db.Model(&models.Book{}).Count(&left).Error)
		assert.Zero(t, left)
	})
}
