// Package exercises provides database operations for the exercise catalogue.
package exercises

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/database/workouts"
	"github.com/mrlokans/gymflow/internal/entities"
)

// Repository handles all exercise database operations.
type Repository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewRepository creates a new exercises repository.
func NewRepository(db *gorm.DB, logger zerolog.Logger) *Repository {
	return &Repository{db: db, logger: logger.With().Str("repository", "exercises").Logger()}
}

// Create inserts an exercise and returns it with its new id.
func (r *Repository) Create(ctx context.Context, e entities.Exercise) (*entities.Exercise, error) {
	e.ID = 0
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, database.Report(r.logger, "create exercise", err)
	}
	r.logger.Info().Uint("id", e.ID).Str("name", e.Name).Msg("exercise created")
	return &e, nil
}

// FindByID retrieves an exercise by id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Exercise, error) {
	var e entities.Exercise
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, database.Report(r.logger, "find exercise", err)
	}
	return &e, nil
}

// FindByName retrieves an exercise by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*entities.Exercise, error) {
	var e entities.Exercise
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&e).Error; err != nil {
		return nil, database.Report(r.logger, "find exercise by name", err)
	}
	return &e, nil
}

// List retrieves all exercises ordered by name.
func (r *Repository) List(ctx context.Context) ([]entities.Exercise, error) {
	var list []entities.Exercise
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, database.Report(r.logger, "list exercises", err)
	}
	return list, nil
}

func (r *Repository) ListByMuscleGroup(ctx context.Context, group string) ([]entities.Exercise, error) {
	var list []entities.Exercise
	if err := r.db.WithContext(ctx).Where("muscle_group = ?", group).Order("name ASC").Find(&list).Error; err != nil {
		return nil, database.Report(r.logger, "list exercises by muscle group", err)
	}
	return list, nil
}

// ListByWorkout retrieves the exercises of a workout in their position order.
func (r *Repository) ListByWorkout(ctx context.Context, workoutID uint) ([]entities.Exercise, error) {
	var list []entities.Exercise
	err := r.db.WithContext(ctx).
		Joins("JOIN workout_exercises ON workout_exercises.exercise_id = exercises.id").
		Where("workout_exercises.workout_id = ?", workoutID).
		Order("workout_exercises.position ASC").
		Find(&list).Error
	if err != nil {
		return nil, database.Report(r.logger, "list exercises by workout", err)
	}
	return list, nil
}

// NameExists reports whether another exercise uses the name.
func (r *Repository) NameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&entities.Exercise{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, database.Report(r.logger, "check exercise name", err)
	}
	return count > 0, nil
}

// Update overwrites an exercise's attributes.
func (r *Repository) Update(ctx context.Context, e entities.Exercise) error {
	result := r.db.WithContext(ctx).Model(&entities.Exercise{}).Where("id = ?", e.ID).Updates(map[string]any{
		"name":         e.Name,
		"description":  e.Description,
		"muscle_group": e.MuscleGroup,
	})
	if result.Error != nil {
		return database.Report(r.logger, "update exercise", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.Report(r.logger, "update exercise", database.NotFound("exercise", e.ID))
	}
	r.logger.Info().Uint("id", e.ID).Msg("exercise updated")
	return nil
}

// Delete removes an exercise from the catalogue and from every workout that
// used it. The affected workouts are re-sequenced.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	var affected []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Exercise{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return database.NotFound("exercise", id)
		}

		if err := tx.Model(&entities.WorkoutExercise{}).Where("exercise_id = ?", id).Pluck("workout_id", &affected).Error; err != nil {
			return err
		}
		if err := tx.Where("exercise_id = ?", id).Delete(&entities.WorkoutExercise{}).Error; err != nil {
			return err
		}
		for _, workoutID := range affected {
			if err := workouts.Resequence(tx, workoutID); err != nil {
				return err
			}
		}
		return tx.Delete(&entities.Exercise{}, id).Error
	})
	if err != nil {
		return database.Report(r.logger, "delete exercise", err)
	}
	r.logger.Info().Uint("id", id).Int("workouts", len(affected)).Msg("exercise deleted")
	return nil
}
