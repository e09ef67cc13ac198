package workouts

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
)

// AddExercise attaches an exercise to a workout. A zero Position appends it;
// any other position must lie in 1..N+1 and the exercise is placed there,
// shifting later items down.
func (r *Repository) AddExercise(ctx context.Context, we entities.WorkoutExercise) (*entities.WorkoutExercise, error) {
	target := we.Position
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireWorkout(tx, we.WorkoutID); err != nil {
			return err
		}
		last, err := maxPosition(tx, we.WorkoutID)
		if err != nil {
			return err
		}
		if target < 0 || target > last+1 {
			return invalidPosition(target, last+1)
		}

		row := we
		row.Exercise = entities.Exercise{}
		row.Position = last + 1
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		if target != 0 && target != row.Position {
			return move(tx, we.WorkoutID, we.ExerciseID, target)
		}
		return nil
	})
	if err != nil {
		return nil, database.Report(r.logger, "add workout exercise", err)
	}
	r.logger.Info().Uint("workout_id", we.WorkoutID).Uint("exercise_id", we.ExerciseID).Msg("exercise added to workout")
	return r.GetExercise(ctx, we.WorkoutID, we.ExerciseID)
}

// AddExercises appends several exercises with the configured defaults for
// repetitions, sets and load.
func (r *Repository) AddExercises(ctx context.Context, workoutID uint, exerciseIDs []uint) ([]entities.WorkoutExercise, error) {
	var added []entities.WorkoutExercise
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireWorkout(tx, workoutID); err != nil {
			return err
		}
		rows, err := r.appendExercises(tx, workoutID, exerciseIDs)
		added = rows
		return err
	})
	if err != nil {
		return nil, database.Report(r.logger, "add workout exercises", err)
	}
	r.logger.Info().Uint("workout_id", workoutID).Int("count", len(added)).Msg("exercises added to workout")
	return added, nil
}

func (r *Repository) appendExercises(tx *gorm.DB, workoutID uint, exerciseIDs []uint) ([]entities.WorkoutExercise, error) {
	if len(exerciseIDs) == 0 {
		return nil, nil
	}
	last, err := maxPosition(tx, workoutID)
	if err != nil {
		return nil, err
	}

	rows := make([]entities.WorkoutExercise, 0, len(exerciseIDs))
	for i, exerciseID := range exerciseIDs {
		rows = append(rows, entities.WorkoutExercise{
			WorkoutID:   workoutID,
			ExerciseID:  exerciseID,
			Repetitions: r.defaults.Repetitions,
			Sets:        r.defaults.Sets,
			Load:        r.defaults.Load,
			Position:    last + i + 1,
		})
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetExercise retrieves one association with its exercise.
func (r *Repository) GetExercise(ctx context.Context, workoutID, exerciseID uint) (*entities.WorkoutExercise, error) {
	var we entities.WorkoutExercise
	err := r.db.WithContext(ctx).Preload("Exercise").
		Where("workout_id = ? AND exercise_id = ?", workoutID, exerciseID).
		First(&we).Error
	if err != nil {
		return nil, database.Report(r.logger, "get workout exercise", err)
	}
	return &we, nil
}

// ListExercises retrieves a workout's exercises ordered by position.
func (r *Repository) ListExercises(ctx context.Context, workoutID uint) ([]entities.WorkoutExercise, error) {
	var rows []entities.WorkoutExercise
	err := r.db.WithContext(ctx).Preload("Exercise").
		Where("workout_id = ?", workoutID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, database.Report(r.logger, "list workout exercises", err)
	}
	return rows, nil
}

// ListByExercise retrieves every association that uses an exercise.
func (r *Repository) ListByExercise(ctx context.Context, exerciseID uint) ([]entities.WorkoutExercise, error) {
	var rows []entities.WorkoutExercise
	err := r.db.WithContext(ctx).
		Where("exercise_id = ?", exerciseID).
		Order("workout_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, database.Report(r.logger, "list workout exercises by exercise", err)
	}
	return rows, nil
}

// UpdateExercise changes repetitions, sets, load and notes of an association.
// A non-zero Position that differs from the stored one moves the item.
func (r *Repository) UpdateExercise(ctx context.Context, we entities.WorkoutExercise) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findAssociation(tx, we.WorkoutID, we.ExerciseID)
		if err != nil {
			return err
		}
		err = tx.Model(&entities.WorkoutExercise{}).
			Where("workout_id = ? AND exercise_id = ?", we.WorkoutID, we.ExerciseID).
			Updates(map[string]any{
				"repetitions": we.Repetitions,
				"sets":        we.Sets,
				"load":        we.Load,
				"notes":       we.Notes,
			}).Error
		if err != nil {
			return err
		}
		if we.Position != 0 && we.Position != current.Position {
			return move(tx, we.WorkoutID, we.ExerciseID, we.Position)
		}
		return nil
	})
	if err != nil {
		return database.Report(r.logger, "update workout exercise", err)
	}
	r.logger.Info().Uint("workout_id", we.WorkoutID).Uint("exercise_id", we.ExerciseID).Msg("workout exercise updated")
	return nil
}

// RemoveExercise detaches an exercise and closes the gap it leaves.
func (r *Repository) RemoveExercise(ctx context.Context, workoutID, exerciseID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("workout_id = ? AND exercise_id = ?", workoutID, exerciseID).Delete(&entities.WorkoutExercise{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return associationNotFound(workoutID, exerciseID)
		}
		return Resequence(tx, workoutID)
	})
	if err != nil {
		return database.Report(r.logger, "remove workout exercise", err)
	}
	r.logger.Info().Uint("workout_id", workoutID).Uint("exercise_id", exerciseID).Msg("exercise removed from workout")
	return nil
}

// MoveExercise places an exercise at target, shifting the items in between.
func (r *Repository) MoveExercise(ctx context.Context, workoutID, exerciseID uint, target int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return move(tx, workoutID, exerciseID, target)
	})
	if err != nil {
		return database.Report(r.logger, "move workout exercise", err)
	}
	r.logger.Info().Uint("workout_id", workoutID).Uint("exercise_id", exerciseID).Int("position", target).Msg("workout exercise moved")
	return nil
}

// CountExercises returns the number of exercises in a workout.
func (r *Repository) CountExercises(ctx context.Context, workoutID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.WorkoutExercise{}).Where("workout_id = ?", workoutID).Count(&count).Error; err != nil {
		return 0, database.Report(r.logger, "count workout exercises", err)
	}
	return count, nil
}

// move must run inside a transaction.
func move(tx *gorm.DB, workoutID, exerciseID uint, target int) error {
	current, err := findAssociation(tx, workoutID, exerciseID)
	if err != nil {
		return err
	}
	var count int64
	if err := tx.Model(&entities.WorkoutExercise{}).Where("workout_id = ?", workoutID).Count(&count).Error; err != nil {
		return err
	}
	if target < 1 || target > int(count) {
		return invalidPosition(target, int(count))
	}

	old := current.Position
	siblings := tx.Model(&entities.WorkoutExercise{}).Where("workout_id = ?", workoutID)
	switch {
	case target > old:
		err = siblings.Where("position > ? AND position <= ?", old, target).
			Update("position", gorm.Expr("position - 1")).Error
	case target < old:
		err = siblings.Where("position >= ? AND position < ?", target, old).
			Update("position", gorm.Expr("position + 1")).Error
	default:
		return nil
	}
	if err != nil {
		return err
	}

	return tx.Model(&entities.WorkoutExercise{}).
		Where("workout_id = ? AND exercise_id = ?", workoutID, exerciseID).
		Update("position", target).Error
}

// Resequence rewrites a workout's positions as 1..N in their current order.
// It must run inside the transaction that removed items.
func Resequence(tx *gorm.DB, workoutID uint) error {
	var rows []entities.WorkoutExercise
	if err := tx.Where("workout_id = ?", workoutID).Order("position ASC, exercise_id ASC").Find(&rows).Error; err != nil {
		return err
	}
	for i, row := range rows {
		if row.Position == i+1 {
			continue
		}
		err := tx.Model(&entities.WorkoutExercise{}).
			Where("workout_id = ? AND exercise_id = ?", workoutID, row.ExerciseID).
			Update("position", i+1).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func maxPosition(tx *gorm.DB, workoutID uint) (int, error) {
	var last int
	err := tx.Model(&entities.WorkoutExercise{}).
		Select("COALESCE(MAX(position), 0)").
		Where("workout_id = ?", workoutID).
		Scan(&last).Error
	return last, err
}

func findAssociation(tx *gorm.DB, workoutID, exerciseID uint) (*entities.WorkoutExercise, error) {
	var rows []entities.WorkoutExercise
	if err := tx.Where("workout_id = ? AND exercise_id = ?", workoutID, exerciseID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, associationNotFound(workoutID, exerciseID)
	}
	return &rows[0], nil
}

func associationNotFound(workoutID, exerciseID uint) error {
	return database.NotFound("workout exercise", fmt.Sprintf("%d/%d", workoutID, exerciseID))
}

func invalidPosition(target, max int) error {
	return fmt.Errorf("%w: %d is not within 1..%d", database.ErrInvalidPosition, target, max)
}
