package database

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/bookshelf/pkg/logger"
	"github.com/shashiranjanraj/bookshelf/pkg/metrics"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger sends gorm's query log through the request-scoped slog logger.
// Failed queries log at error, slow ones at warn, the rest at debug.
type GormLogger struct {
	level gormlogger.LogLevel
	slow  time.Duration
}

// NewGormLogger returns a GormLogger flagging queries slower than slow.
func NewGormLogger(slow time.Duration) *GormLogger {
	return &GormLogger{level: gormlogger.Warn, slow: slow}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		logger.WithCtx(ctx).Info("gorm: "+msg, "args", args)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger.WithCtx(ctx).Warn("gorm: "+msg, "args", args)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		logger.WithCtx(ctx).Error("gorm: "+msg, "args", args)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	log := logger.WithCtx(ctx)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		log.Error("db query failed", "sql", sql, "rows", rows, "elapsed", elapsed, "err", err)
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Warn("db slow query", "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		log.Debug("db query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}

const startedKey = "bookshelf:started_at"

func markStart(db *gorm.DB) {
	db.InstanceSet(startedKey, time.Now())
}

func observe(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startedKey)
		if !ok {
			return
		}
		if start, ok := v.(time.Time); ok {
			metrics.ObserveDBQuery(op, start)
		}
	}
}

// registerMetrics times every gorm operation into
// bookshelf_db_query_duration_seconds.
func registerMetrics(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("metrics:create_start", markStart),
		cb.Create().After("gorm:create").Register("metrics:create_end", observe("create")),
		cb.Query().Before("gorm:query").Register("metrics:query_start", markStart),
		cb.Query().After("gorm:query").Register("metrics:query_end", observe("query")),
		cb.Update().Before("gorm:update").Register("metrics:update_start", markStart),
		cb.Update().After("gorm:update").Register("metrics:update_end", observe("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:delete_start", markStart),
		cb.Delete().After("gorm:delete").Register("metrics:delete_end", observe("delete")),
		cb.Row().Before("gorm:row").Register("metrics:row_start", markStart),
		cb.Row().After("gorm:row").Register("metrics:row_end", observe("row")),
		cb.Raw().Before("gorm:raw").Register("metrics:raw_start", markStart),
		cb.Raw().After("gorm:raw").Register("metrics:raw_end", observe("raw")),
	)
}
