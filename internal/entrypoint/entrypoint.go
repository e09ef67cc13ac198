// Package entrypoint wires configuration, logging, the database and the
// services into an App that CLI commands run against.
package entrypoint

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrlokans/gymflow/internal/audit"
	"github.com/mrlokans/gymflow/internal/config"
	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/database/assignments"
	auditRepo "github.com/mrlokans/gymflow/internal/database/audit"
	"github.com/mrlokans/gymflow/internal/database/employees"
	"github.com/mrlokans/gymflow/internal/database/evaluations"
	"github.com/mrlokans/gymflow/internal/database/exercises"
	"github.com/mrlokans/gymflow/internal/database/fees"
	"github.com/mrlokans/gymflow/internal/database/plans"
	"github.com/mrlokans/gymflow/internal/database/students"
	"github.com/mrlokans/gymflow/internal/database/teachers"
	"github.com/mrlokans/gymflow/internal/database/workouts"
	"github.com/mrlokans/gymflow/internal/logging"
	"github.com/mrlokans/gymflow/internal/services"
)

// App holds everything a command needs. Close releases the connection pool.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	DB     *database.Database
	Audit  *audit.Service

	Members     *services.MemberService
	Catalog     *services.CatalogService
	Workouts    *services.WorkoutService
	Billing     *services.BillingService
	Evaluations *services.EvaluationService
}

// New opens the database described by cfg and builds the services on top of
// it. Extra options are passed to every service.
func New(cfg *config.Config, opts ...services.Option) (*App, error) {
	logger := logging.New(cfg.Log)

	db, err := database.NewDatabase(cfg.Database, logger, logging.NewGormLogger(logger, cfg.Log.SQLLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewWithDatabase(cfg, db, logger, opts...), nil
}

// NewWithDatabase builds an App over an already opened database.
func NewWithDatabase(cfg *config.Config, db *database.Database, logger zerolog.Logger, opts ...services.Option) *App {
	auditor := audit.NewService(auditRepo.NewRepository(db.DB, logger), logger, cfg.Audit.Enabled)
	opts = append([]services.Option{services.WithValidator(services.NewValidator())}, opts...)

	workoutRepo := workouts.NewRepository(db.DB, logger, workouts.WithExerciseDefaults(workouts.ExerciseDefaults{
		Repetitions: cfg.Workouts.DefaultRepetitions,
		Sets:        cfg.Workouts.DefaultSets,
		Load:        cfg.Workouts.DefaultLoad,
	}))

	return &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Audit:  auditor,
		Members: services.NewMemberService(
			students.NewRepository(db.DB, logger),
			employees.NewRepository(db.DB, logger),
			teachers.NewRepository(db.DB, logger),
			auditor, logger, opts...),
		Catalog: services.NewCatalogService(
			plans.NewRepository(db.DB, logger),
			exercises.NewRepository(db.DB, logger),
			auditor, logger, opts...),
		Workouts: services.NewWorkoutService(
			workoutRepo,
			assignments.NewRepository(db.DB, logger),
			auditor, logger, opts...),
		Billing:     services.NewBillingService(fees.NewRepository(db.DB, logger), auditor, logger, opts...),
		Evaluations: services.NewEvaluationService(evaluations.NewRepository(db.DB, logger), auditor, logger, opts...),
	}
}

// Context bounds a single operation by the configured timeout.
func (a *App) Context() (context.Context, context.CancelFunc) {
	timeout := a.Config.Database.OperationTimeout
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// PruneAudit removes audit events past the retention period. It is a no-op
// when auditing is disabled or retention is not positive.
func (a *App) PruneAudit(ctx context.Context) {
	if !a.Config.Audit.Enabled || a.Config.Audit.RetentionDays <= 0 {
		return
	}
	deleted, err := a.Audit.Prune(ctx, a.Config.Audit.RetentionDays)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("failed to prune audit events")
		return
	}
	if deleted > 0 {
		a.Logger.Info().Int64("deleted", deleted).Int("retention_days", a.Config.Audit.RetentionDays).Msg("pruned audit events")
	}
}

func (a *App) Close() error {
	return a.DB.Close()
}
