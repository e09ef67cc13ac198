// Package assignments provides database operations for the workouts assigned
// to students.
package assignments

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
)

// Repository handles all student workout database operations.
type Repository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewRepository creates a new assignments repository.
func NewRepository(db *gorm.DB, logger zerolog.Logger) *Repository {
	return &Repository{db: db, logger: logger.With().Str("repository", "assignments").Logger()}
}

// Create assigns a workout to a student. A student holds a given workout at
// most once.
func (r *Repository) Create(ctx context.Context, sw entities.StudentWorkout) (*entities.StudentWorkout, error) {
	sw.Student = entities.Student{}
	sw.Workout = entities.Workout{}
	sw.StartDate = entities.DateOf(sw.StartDate)
	if sw.EndDate != nil {
		end := entities.DateOf(*sw.EndDate)
		sw.EndDate = &end
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&sw).Error; err != nil {
		return nil, database.Report(r.logger, "assign workout", err)
	}
	r.logger.Info().Uint("student_id", sw.StudentID).Uint("workout_id", sw.WorkoutID).Msg("workout assigned")
	return r.Find(ctx, sw.StudentID, sw.WorkoutID)
}

func (r *Repository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Workout")
}

// Find retrieves one assignment with its workout.
func (r *Repository) Find(ctx context.Context, studentID, workoutID uint) (*entities.StudentWorkout, error) {
	var sw entities.StudentWorkout
	err := r.query(ctx).
		Where("student_id = ? AND workout_id = ?", studentID, workoutID).
		First(&sw).Error
	if err != nil {
		return nil, database.Report(r.logger, "find assignment", err)
	}
	return &sw, nil
}

// List retrieves every assignment, newest start date first.
func (r *Repository) List(ctx context.Context) ([]entities.StudentWorkout, error) {
	var list []entities.StudentWorkout
	if err := r.query(ctx).Order("start_date DESC, student_id ASC, workout_id ASC").Find(&list).Error; err != nil {
		return nil, database.Report(r.logger, "list assignments", err)
	}
	return list, nil
}

// ListByStudent retrieves a student's assignments, newest start date first.
func (r *Repository) ListByStudent(ctx context.Context, studentID uint) ([]entities.StudentWorkout, error) {
	var list []entities.StudentWorkout
	err := r.query(ctx).
		Where("student_id = ?", studentID).
		Order("start_date DESC, workout_id ASC").
		Find(&list).Error
	if err != nil {
		return nil, database.Report(r.logger, "list assignments by student", err)
	}
	return list, nil
}

// ListByWorkout retrieves the students holding a workout, newest start date first.
func (r *Repository) ListByWorkout(ctx context.Context, workoutID uint) ([]entities.StudentWorkout, error) {
	var list []entities.StudentWorkout
	err := r.db.WithContext(ctx).
		Preload("Student.Person").
		Where("workout_id = ?", workoutID).
		Order("start_date DESC, student_id ASC").
		Find(&list).Error
	if err != nil {
		return nil, database.Report(r.logger, "list assignments by workout", err)
	}
	return list, nil
}

// ListActiveByStudent retrieves the assignments that cover today.
func (r *Repository) ListActiveByStudent(ctx context.Context, studentID uint, today time.Time) ([]entities.StudentWorkout, error) {
	today = entities.DateOf(today)
	var list []entities.StudentWorkout
	err := r.query(ctx).
		Where("student_id = ?", studentID).
		Where("start_date <= ?", today).
		Where("end_date IS NULL OR end_date >= ?", today).
		Order("start_date DESC, workout_id ASC").
		Find(&list).Error
	if err != nil {
		return nil, database.Report(r.logger, "list active assignments", err)
	}
	return list, nil
}

// Update overwrites the period and notes of an assignment.
func (r *Repository) Update(ctx context.Context, sw entities.StudentWorkout) error {
	var end *time.Time
	if sw.EndDate != nil {
		d := entities.DateOf(*sw.EndDate)
		end = &d
	}
	result := r.db.WithContext(ctx).Model(&entities.StudentWorkout{}).
		Where("student_id = ? AND workout_id = ?", sw.StudentID, sw.WorkoutID).
		Updates(map[string]any{
			"start_date": entities.DateOf(sw.StartDate),
			"end_date":   end,
			"notes":      sw.Notes,
		})
	if result.Error != nil {
		return database.Report(r.logger, "update assignment", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.Report(r.logger, "update assignment", notFound(sw.StudentID, sw.WorkoutID))
	}
	r.logger.Info().Uint("student_id", sw.StudentID).Uint("workout_id", sw.WorkoutID).Msg("assignment updated")
	return nil
}

// End closes an assignment as of today.
func (r *Repository) End(ctx context.Context, studentID, workoutID uint, today time.Time) error {
	if err := r.setEndDate(ctx, studentID, workoutID, entities.DateOf(today)); err != nil {
		return database.Report(r.logger, "end assignment", err)
	}
	r.logger.Info().Uint("student_id", studentID).Uint("workout_id", workoutID).Msg("assignment ended")
	return nil
}

// Renew extends an assignment by days, counted from its end date or from
// today when it has none. It returns the new end date.
func (r *Repository) Renew(ctx context.Context, studentID, workoutID uint, days int, today time.Time) (time.Time, error) {
	var end time.Time
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []entities.StudentWorkout
		if err := tx.Where("student_id = ? AND workout_id = ?", studentID, workoutID).Limit(1).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return notFound(studentID, workoutID)
		}

		from := entities.DateOf(today)
		if rows[0].EndDate != nil {
			from = entities.DateOf(*rows[0].EndDate)
		}
		end = from.AddDate(0, 0, days)
		return tx.Model(&entities.StudentWorkout{}).
			Where("student_id = ? AND workout_id = ?", studentID, workoutID).
			Update("end_date", end).Error
	})
	if err != nil {
		return time.Time{}, database.Report(r.logger, "renew assignment", err)
	}
	r.logger.Info().Uint("student_id", studentID).Uint("workout_id", workoutID).
		Str("end_date", entities.FormatDate(end)).Msg("assignment renewed")
	return end, nil
}

// Delete removes an assignment.
func (r *Repository) Delete(ctx context.Context, studentID, workoutID uint) error {
	result := r.db.WithContext(ctx).
		Where("student_id = ? AND workout_id = ?", studentID, workoutID).
		Delete(&entities.StudentWorkout{})
	if result.Error != nil {
		return database.Report(r.logger, "delete assignment", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.Report(r.logger, "delete assignment", notFound(studentID, workoutID))
	}
	r.logger.Info().Uint("student_id", studentID).Uint("workout_id", workoutID).Msg("assignment deleted")
	return nil
}

func (r *Repository) setEndDate(ctx context.Context, studentID, workoutID uint, end time.Time) error {
	result := r.db.WithContext(ctx).Model(&entities.StudentWorkout{}).
		Where("student_id = ? AND workout_id = ?", studentID, workoutID).
		Update("end_date", end)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(studentID, workoutID)
	}
	return nil
}

func notFound(studentID, workoutID uint) error {
	return database.NotFound("assignment", fmt.Sprintf("%d/%d", studentID, workoutID))
}
