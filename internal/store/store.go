// Package store persists slang terms, their mentions and daily rollups in SQLite
// and answers the ranked moderation queries.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ppiankov/slangwatch/internal/model"
)

// ErrInvalidTerm is returned when a term is empty after normalization
var ErrInvalidTerm = errors.New("term is empty")

// StorageError wraps a database fault. It is never retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// wrapErr turns a database error into a *StorageError, leaving nil,
// validation errors and already-wrapped errors alone
func wrapErr(op string, err error) error {
	if err == nil || errors.Is(err, ErrInvalidTerm) || errors.Is(err, model.ErrInvalidStatus) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// Repository is the write side used by collectors and the approval workflow
type Repository interface {
	UpsertTerm(ctx context.Context, name, definition, category string) (uint, error)
	RecordMention(ctx context.Context, term, platform, content string, engagement int) error
	SetApprovalStatus(ctx context.Context, term string, status model.ApprovalStatus, actor, reason string) (bool, error)
	DeleteTerm(ctx context.Context, term string) (bool, error)
	BulkDelete(ctx context.Context, terms []string) (int, error)
	BulkApprove(ctx context.Context, terms []string, actor string) (int, error)
}

var _ Repository = (*Store)(nil)

// Store is the SQLite-backed term and mention store
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and migrates the schema
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	dsn := path
	if path != ":memory:" && !strings.Contains(path, "?") {
		dsn = path + "?_busy_timeout=5000"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: &gormLogger{
			log: log.Named("gorm"),
			Config: logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		},
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return New(db)
}

// New wraps an open gorm handle and migrates the schema
func New(db *gorm.DB) (*Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases alive
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Term{}, &model.Mention{}, &model.DailyTrend{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// DB exposes the underlying handle
func (s *Store) DB() *gorm.DB { return s.db }

// Ping checks that the database answers
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrapErr("ping", err)
	}
	return wrapErr("ping", sqlDB.PingContext(ctx))
}

// Close closes the database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormLogger routes gorm's logging through zap
type gormLogger struct {
	log    *zap.Logger
	Config logger.Config
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	nl := *l
	nl.Config.LogLevel = level
	return &nl
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Info {
		l.log.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Warn {
		l.log.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Error {
		l.log.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Config.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed)}

	switch {
	case err != nil && l.Config.LogLevel >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.log.Error("query failed", append(fields, zap.Error(err))...)
	case l.Config.SlowThreshold != 0 && elapsed > l.Config.SlowThreshold && l.Config.LogLevel >= logger.Warn:
		l.log.Warn("slow query", fields...)
	case l.Config.LogLevel >= logger.Info:
		l.log.Debug("query", fields...)
	}
}
