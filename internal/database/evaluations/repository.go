// Package evaluations provides database operations for physical evaluations.
package evaluations

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
)

// Repository handles all evaluation database operations.
type Repository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewRepository creates a new evaluations repository.
func NewRepository(db *gorm.DB, logger zerolog.Logger) *Repository {
	return &Repository{db: db, logger: logger.With().Str("repository", "evaluations").Logger()}
}

// Create inserts an evaluation and returns it with its new id.
func (r *Repository) Create(ctx context.Context, e entities.Evaluation) (*entities.Evaluation, error) {
	e.ID = 0
	e.Student = entities.Student{}
	e.Teacher = nil
	e.Date = entities.DateOf(e.Date)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&e).Error; err != nil {
		return nil, database.Report(r.logger, "create evaluation", err)
	}
	r.logger.Info().Uint("id", e.ID).Uint("student_id", e.StudentID).Msg("evaluation created")
	return &e, nil
}

// FindByID retrieves an evaluation by id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Evaluation, error) {
	var e entities.Evaluation
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, database.Report(r.logger, "find evaluation", err)
	}
	return &e, nil
}

// List retrieves all evaluations, most recent first.
func (r *Repository) List(ctx context.Context) ([]entities.Evaluation, error) {
	var list []entities.Evaluation
	if err := r.db.WithContext(ctx).Order("date DESC, id DESC").Find(&list).Error; err != nil {
		return nil, database.Report(r.logger, "list evaluations", err)
	}
	return list, nil
}

// ListByStudent retrieves a student's evaluations, most recent first.
func (r *Repository) ListByStudent(ctx context.Context, studentID uint) ([]entities.Evaluation, error) {
	return r.LatestByStudent(ctx, studentID, 0)
}

// LatestByStudent retrieves at most n of a student's evaluations, most recent
// first. n <= 0 means no limit.
func (r *Repository) LatestByStudent(ctx context.Context, studentID uint, n int) ([]entities.Evaluation, error) {
	q := r.db.WithContext(ctx).Where("student_id = ?", studentID).Order("date DESC, id DESC")
	if n > 0 {
		q = q.Limit(n)
	}
	var list []entities.Evaluation
	if err := q.Find(&list).Error; err != nil {
		return nil, database.Report(r.logger, "list evaluations by student", err)
	}
	return list, nil
}

// Update overwrites an evaluation's attributes.
func (r *Repository) Update(ctx context.Context, e entities.Evaluation) error {
	result := r.db.WithContext(ctx).Model(&entities.Evaluation{}).Where("id = ?", e.ID).Updates(map[string]any{
		"student_id": e.StudentID,
		"teacher_id": e.TeacherID,
		"date":       entities.DateOf(e.Date),
		"weight":     e.Weight,
		"height":     e.Height,
		"notes":      e.Notes,
	})
	if result.Error != nil {
		return database.Report(r.logger, "update evaluation", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.Report(r.logger, "update evaluation", database.NotFound("evaluation", e.ID))
	}
	r.logger.Info().Uint("id", e.ID).Msg("evaluation updated")
	return nil
}

// Delete removes an evaluation.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Evaluation{}, id)
	if result.Error != nil {
		return database.Report(r.logger, "delete evaluation", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.Report(r.logger, "delete evaluation", database.NotFound("evaluation", id))
	}
	r.logger.Info().Uint("id", id).Msg("evaluation deleted")
	return nil
}
