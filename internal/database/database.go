package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/gymflow/internal/config"
	"github.com/mrlokans/gymflow/internal/entities"
)

// models lists every persisted entity. GORM orders table creation by the
// foreign keys between them.
var models = []any{
	&entities.Person{},
	&entities.Plan{},
	&entities.Student{},
	&entities.Employee{},
	&entities.Teacher{},
	&entities.Exercise{},
	&entities.Workout{},
	&entities.WorkoutExercise{},
	&entities.StudentWorkout{},
	&entities.Evaluation{},
	&entities.MonthlyFee{},
	&entities.AuditEvent{},
}

// Database owns the connection pool. It is opened once by the entrypoint and
// handed to every repository; Close releases it.
type Database struct {
	DB   *gorm.DB
	Path string

	logger    zerolog.Logger
	closeOnce sync.Once
	closeErr  error
}

// NewDatabase opens the SQLite file at cfg.Path, applies pool limits and
// migrates the schema. A nil gormLogger silences SQL logging.
func NewDatabase(cfg config.Database, logger zerolog.Logger, gormLogger gormlogger.Interface) (*Database, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if gormLogger == nil {
		gormLogger = gormlogger.Discard
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	applyPool(sqlDB, cfg)

	database := &Database{
		DB:     db,
		Path:   cfg.Path,
		logger: logger.With().Str("component", "database").Logger(),
	}

	if err := database.Migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	database.logger.Info().Str("path", cfg.Path).Int("max_open_conns", cfg.MaxOpenConns).Msg("database initialized")

	return database, nil
}

// dsn enables foreign keys on every pooled connection and starts write
// transactions with an immediate lock so concurrent writers wait on the busy
// timeout instead of failing on lock upgrade. The path is percent-encoded so a
// '?' or '#' in a file name cannot leak into the query string.
func dsn(cfg config.Database) string {
	path := (&url.URL{Path: cfg.Path}).EscapedPath()
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d&_journal_mode=WAL&_txlock=immediate",
		path, cfg.BusyTimeout.Milliseconds())
}

func applyPool(sqlDB *sql.DB, cfg config.Database) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// Migrate creates or updates all tables.
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks that a pooled connection can be acquired within ctx.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Stats() sql.DBStats {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return sql.DBStats{}
	}
	return sqlDB.Stats()
}

// Close releases the pool. Calling it more than once is a no-op.
func (d *Database) Close() error {
	d.closeOnce.Do(func() {
		sqlDB, err := d.DB.DB()
		if err != nil {
			d.closeErr = err
			return
		}
		d.closeErr = sqlDB.Close()
		d.logger.Debug().Str("path", d.Path).Msg("database closed")
	})
	return d.closeErr
}
