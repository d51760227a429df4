package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/rs/zerolog/log"

	"users-backend/constant"
	"users-backend/helper"
)

// OpenFunc opens and pings one connection pool for target.
type OpenFunc func(target helper.Target) (*gorm.DB, error)

// Options controls Connect. Zero values fall back to the defaults in
// package constant.
type Options struct {
	MaxAttempts     int
	RetryDelay      time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// LogSQL turns on statement logging through zerolog at debug level.
	LogSQL bool
	// Open replaces the default opener, mostly for tests.
	Open OpenFunc
}

// Pool is the process-wide connection pool. It is built once at startup and
// shared by every request.
type Pool struct {
	orm     *gorm.DB
	dialect string
}

// Connect opens the database named by databaseURL, retrying with a fixed
// delay. The last failure is returned wrapped in a FatalStartupError.
func Connect(ctx context.Context, databaseURL string, opts Options) (*Pool, error) {
	target, err := helper.ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, &FatalStartupError{Attempts: 0, Err: err}
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = constant.MAX_CONNECT_ATTEMPTS
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = constant.CONNECT_RETRY_DELAY
	}
	open := opts.Open
	if open == nil {
		open = openTarget
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		orm, err := open(target)
		if err == nil {
			log.Info().
				Int("attempt", attempt).
				Str("dialect", target.Dialect).
				Str("url", helper.RedactURL(databaseURL)).
				Msg("Database connection successful")
			return newPool(orm, target, opts), nil
		}

		lastErr = err
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Msg("Database connection failed")

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, &FatalStartupError{Attempts: attempt, Err: ctx.Err()}
		case <-time.After(delay):
		}
	}
	return nil, &FatalStartupError{Attempts: maxAttempts, Err: lastErr}
}

func openTarget(target helper.Target) (*gorm.DB, error) {
	if target.Driver == target.Dialect {
		return gorm.Open(target.Dialect, target.DSN)
	}

	sqlDB, err := sql.Open(target.Driver, target.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", target.Driver, err)
	}
	// gorm pings a handed-in *sql.DB but leaves closing it to us
	orm, err := gorm.Open(target.Dialect, sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return orm, nil
}

func newPool(orm *gorm.DB, target helper.Target, opts Options) *Pool {
	orm.SetLogger(gormLogger{})
	orm.LogMode(opts.LogSQL)

	sqlDB := orm.DB()
	if target.Dialect == "sqlite3" && target.DSN == ":memory:" {
		// every connection to :memory: is a separate database, and closing
		// the last one discards it; pin exactly one connection forever
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
		return &Pool{orm: orm, dialect: target.Dialect}
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return &Pool{orm: orm, dialect: target.Dialect}
}

// NewPool wraps an already opened gorm handle.
func NewPool(orm *gorm.DB, dialect string) *Pool {
	return &Pool{orm: orm, dialect: dialect}
}

func (p *Pool) Dialect() string { return p.dialect }

func (p *Pool) Ping(ctx context.Context) error {
	return p.orm.DB().PingContext(ctx)
}

func (p *Pool) Stats() sql.DBStats {
	return p.orm.DB().Stats()
}

func (p *Pool) Close() error {
	return p.orm.Close()
}

// gormLogger sends gorm's output to zerolog.
type gormLogger struct{}

func (gormLogger) Print(values ...interface{}) {
	if len(values) > 0 && values[0] == "error" {
		log.Error().Msg(fmt.Sprint(gorm.LogFormatter(values...)...))
		return
	}
	log.Debug().Msg(fmt.Sprint(gorm.LogFormatter(values...)...))
}
