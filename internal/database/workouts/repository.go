// Package workouts provides database operations for workouts and their
// ordered exercise lists.
//
// Each workout's exercises carry positions that always form 1..N. Appends take
// max+1, removals re-sequence the remainder and moves shift the range between
// the old and the new position, each inside a single transaction.
package workouts

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/gymflow/internal/config"
	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
)

// ExerciseDefaults fills exercises attached in bulk.
type ExerciseDefaults struct {
	Repetitions int
	Sets        int
	Load        float64
}

// Repository handles all workout database operations.
type Repository struct {
	db       *gorm.DB
	logger   zerolog.Logger
	defaults ExerciseDefaults
}

type Option func(*Repository)

// WithExerciseDefaults overrides the values used by bulk attachment.
func WithExerciseDefaults(d ExerciseDefaults) Option {
	return func(r *Repository) {
		r.defaults = d
	}
}

// NewRepository creates a new workouts repository.
func NewRepository(db *gorm.DB, logger zerolog.Logger, opts ...Option) *Repository {
	r := &Repository{
		db:     db,
		logger: logger.With().Str("repository", "workouts").Logger(),
		defaults: ExerciseDefaults{
			Repetitions: config.DefaultRepetitions,
			Sets:        config.DefaultSets,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create inserts a workout and attaches the given exercises at positions
// 1..N in order, all in one transaction.
func (r *Repository) Create(ctx context.Context, w entities.Workout, exerciseIDs []uint) (*entities.Workout, error) {
	w.ID = 0
	w.Teacher = nil
	w.Exercises = nil
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&w).Error; err != nil {
			return err
		}
		_, err := r.appendExercises(tx, w.ID, exerciseIDs)
		return err
	})
	if err != nil {
		return nil, database.Report(r.logger, "create workout", err)
	}
	r.logger.Info().Uint("id", w.ID).Int("exercises", len(exerciseIDs)).Msg("workout created")
	return r.FindByID(ctx, w.ID)
}

func (r *Repository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Teacher.Employee.Person").
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("workout_exercises.position ASC")
		}).
		Preload("Exercises.Exercise")
}

// FindByID retrieves a workout with its teacher and ordered exercises.
func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Workout, error) {
	var w entities.Workout
	if err := r.query(ctx).Where("workouts.id = ?", id).First(&w).Error; err != nil {
		return nil, database.Report(r.logger, "find workout", err)
	}
	return &w, nil
}

// FindByName retrieves a workout by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*entities.Workout, error) {
	var w entities.Workout
	if err := r.query(ctx).Where("workouts.name = ?", name).First(&w).Error; err != nil {
		return nil, database.Report(r.logger, "find workout by name", err)
	}
	return &w, nil
}

// List retrieves all workouts ordered by id.
func (r *Repository) List(ctx context.Context) ([]entities.Workout, error) {
	var ws []entities.Workout
	if err := r.query(ctx).Order("workouts.id ASC").Find(&ws).Error; err != nil {
		return nil, database.Report(r.logger, "list workouts", err)
	}
	return ws, nil
}

// ListByTeacher retrieves the workouts created by a teacher.
func (r *Repository) ListByTeacher(ctx context.Context, teacherID uint) ([]entities.Workout, error) {
	var ws []entities.Workout
	if err := r.query(ctx).Where("workouts.teacher_id = ?", teacherID).Order("workouts.id ASC").Find(&ws).Error; err != nil {
		return nil, database.Report(r.logger, "list workouts by teacher", err)
	}
	return ws, nil
}

// ListByStudent retrieves the workouts assigned to a student.
func (r *Repository) ListByStudent(ctx context.Context, studentID uint) ([]entities.Workout, error) {
	var ws []entities.Workout
	err := r.query(ctx).
		Joins("JOIN student_workouts ON student_workouts.workout_id = workouts.id").
		Where("student_workouts.student_id = ?", studentID).
		Order("workouts.id ASC").
		Find(&ws).Error
	if err != nil {
		return nil, database.Report(r.logger, "list workouts by student", err)
	}
	return ws, nil
}

// NameExists reports whether another workout uses the name.
func (r *Repository) NameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&entities.Workout{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, database.Report(r.logger, "check workout name", err)
	}
	return count > 0, nil
}

// Update overwrites the workout's own attributes. Its exercise list is
// managed through the association methods.
func (r *Repository) Update(ctx context.Context, w entities.Workout) error {
	result := r.db.WithContext(ctx).Model(&entities.Workout{}).Where("id = ?", w.ID).Updates(map[string]any{
		"name":          w.Name,
		"creation_date": w.CreationDate,
		"notes":         w.Notes,
		"teacher_id":    w.TeacherID,
	})
	if result.Error != nil {
		return database.Report(r.logger, "update workout", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.Report(r.logger, "update workout", database.NotFound("workout", w.ID))
	}
	r.logger.Info().Uint("id", w.ID).Msg("workout updated")
	return nil
}

// Delete removes a workout with its exercise list and its student assignments.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireWorkout(tx, id); err != nil {
			return err
		}
		if err := tx.Where("workout_id = ?", id).Delete(&entities.WorkoutExercise{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workout_id = ?", id).Delete(&entities.StudentWorkout{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Workout{}, id).Error
	})
	if err != nil {
		return database.Report(r.logger, "delete workout", err)
	}
	r.logger.Info().Uint("id", id).Msg("workout deleted")
	return nil
}

func requireWorkout(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&entities.Workout{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return database.NotFound("workout", id)
	}
	return nil
}
