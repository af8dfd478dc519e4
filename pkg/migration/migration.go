// Package migration runs versioned schema migrations and records which ones
// have been applied.
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
//	}
//
//	bookshelf migrate            // run all pending
//	bookshelf migrate:rollback   // reverse the last batch
package migration

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/bookshelf/pkg/logger"
	"gorm.io/gorm"
)

// Migration is implemented by every schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// Entry is a named migration.
type Entry struct {
	Name      string
	Migration Migration
}

type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "bookshelf_migrations" }

var (
	regMu    sync.Mutex
	registry []Entry
)

// Register adds a migration to the global registry. Names are
// timestamp-prefixed so they sort chronologically.
func Register(name string, m Migration) {
	regMu.Lock()
	defer regMu.Unlock()
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Registered returns a copy of the global registry.
func Registered() []Entry {
	regMu.Lock()
	defer regMu.Unlock()
	return append([]Entry(nil), registry...)
}

// Runner executes and tracks a set of migrations.
type Runner struct {
	db      *gorm.DB
	out     io.Writer
	entries []Entry
}

// New returns a Runner over the globally registered migrations.
func New(db *gorm.DB, out io.Writer) *Runner {
	return NewWith(db, out, Registered())
}

// NewWith returns a Runner over an explicit migration set.
func NewWith(db *gorm.DB, out io.Writer, entries []Entry) *Runner {
	if out == nil {
		out = io.Discard
	}
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Runner{db: db, out: out, entries: sorted}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&migrationRecord{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) applied() (map[string]migrationRecord, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, fmt.Errorf("migration: load applied: %w", err)
	}
	out := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		out[rec.Name] = rec
	}
	return out, nil
}

// Pending returns the migrations that have not been applied, in order.
func (r *Runner) Pending() ([]Entry, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	ran, err := r.applied()
	if err != nil {
		return nil, err
	}

	var pending []Entry
	for _, e := range r.entries {
		if _, ok := ran[e.Name]; !ok {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// Run applies every pending migration as one batch. Each migration and its
// tracking row commit together.
func (r *Runner) Run() error {
	pending, err := r.Pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	batch++

	for _, e := range pending {
		logger.Info("migration: running", "name", e.Name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", e.Name)

		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := e.Migration.Up(tx); err != nil {
				return fmt.Errorf("%s up: %w", e.Name, err)
			}
			return tx.Create(&migrationRecord{Name: e.Name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %w", err)
		}
		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", e.Name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses every migration of the most recent batch, newest first.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		byName[e.Name] = e.Migration
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: %w", rec.Name, ErrUnknownMigration)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		rec := rec
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return fmt.Errorf("%s down: %w", rec.Name, err)
			}
			return tx.Delete(&rec).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %w", err)
		}
	}
	return nil
}

// StatusRow describes one known migration.
type StatusRow struct {
	Name  string
	Ran   bool
	Batch int
}

// Status reports every known migration and whether it has been applied.
func (r *Runner) Status() ([]StatusRow, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	ran, err := r.applied()
	if err != nil {
		return nil, err
	}

	rows := make([]StatusRow, 0, len(r.entries))
	for _, e := range r.entries {
		rec, ok := ran[e.Name]
		rows = append(rows, StatusRow{Name: e.Name, Ran: ok, Batch: rec.Batch})
	}
	return rows, nil
}

// PrintStatus writes Status as a table to the runner's output.
func (r *Runner) PrintStatus() error {
	rows, err := r.Status()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, row := range rows {
		if row.Ran {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", row.Name, "Ran", row.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", row.Name, "Pending")
		}
	}
	return nil
}

func (r *Runner) lastBatch() (int, error) {
	var last struct{ Max int }
	if err := r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&last).Error; err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return last.Max, nil
}

// ErrUnknownMigration is returned when a recorded migration is no longer
// registered.
var ErrUnknownMigration = errors.New("migration not registered")
