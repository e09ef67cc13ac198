package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Database
		Log
		Workouts
		Audit
	}

	Database struct {
		Path             string
		MaxOpenConns     int
		MaxIdleConns     int
		ConnMaxIdleTime  time.Duration
		ConnMaxLifetime  time.Duration
		BusyTimeout      time.Duration // How long SQLite waits on a locked database
		OperationTimeout time.Duration // Upper bound for a single CLI operation
	}
	Log struct {
		Level    string // zerolog level name: debug, info, warn, error
		Pretty   bool   // Human-readable console output instead of JSON
		SQLLevel string // GORM logger level: silent, error, warn, info
	}
	// Workouts holds defaults applied when exercises are attached in bulk.
	Workouts struct {
		DefaultRepetitions int
		DefaultSets        int
		DefaultLoad        float64
	}
	Audit struct {
		Enabled       bool
		RetentionDays int // Days to keep audit events (default: 90)
	}
)

// NewConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence over it.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_max_open_conns", 10)
	v.SetDefault("database_max_idle_conns", 5)
	v.SetDefault("database_conn_max_idle_time", "5m")
	v.SetDefault("database_conn_max_lifetime", "10m")
	v.SetDefault("database_busy_timeout", "30s")
	v.SetDefault("database_operation_timeout", "30s")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", true)
	v.SetDefault("log_sql_level", "warn")

	v.SetDefault("workout_default_repetitions", DefaultRepetitions)
	v.SetDefault("workout_default_sets", DefaultSets)
	v.SetDefault("workout_default_load", 0)

	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_retention_days", 90)

	return &Config{
		Database: Database{
			Path:             v.GetString("DATABASE_PATH"),
			MaxOpenConns:     v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:     v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxIdleTime:  v.GetDuration("DATABASE_CONN_MAX_IDLE_TIME"),
			ConnMaxLifetime:  v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
			BusyTimeout:      v.GetDuration("DATABASE_BUSY_TIMEOUT"),
			OperationTimeout: v.GetDuration("DATABASE_OPERATION_TIMEOUT"),
		},
		Log: Log{
			Level:    v.GetString("LOG_LEVEL"),
			Pretty:   v.GetBool("LOG_PRETTY"),
			SQLLevel: v.GetString("LOG_SQL_LEVEL"),
		},
		Workouts: Workouts{
			DefaultRepetitions: v.GetInt("WORKOUT_DEFAULT_REPETITIONS"),
			DefaultSets:        v.GetInt("WORKOUT_DEFAULT_SETS"),
			DefaultLoad:        v.GetFloat64("WORKOUT_DEFAULT_LOAD"),
		},
		Audit: Audit{
			Enabled:       v.GetBool("AUDIT_ENABLED"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}
