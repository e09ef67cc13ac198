// Package plans provides database operations for membership plans.
package plans

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
)

// Repository handles all plan database operations.
type Repository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewRepository creates a new plans repository.
func NewRepository(db *gorm.DB, logger zerolog.Logger) *Repository {
	return &Repository{db: db, logger: logger.With().Str("repository", "plans").Logger()}
}

// Create inserts a plan and returns it with its new id.
func (r *Repository) Create(ctx context.Context, p entities.Plan) (*entities.Plan, error) {
	p.ID = 0
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, database.Report(r.logger, "create plan", err)
	}
	r.logger.Info().Uint("id", p.ID).Str("name", p.Name).Msg("plan created")
	return &p, nil
}

// FindByID retrieves a plan by id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Plan, error) {
	var p entities.Plan
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, database.Report(r.logger, "find plan", err)
	}
	return &p, nil
}

// FindByName retrieves a plan by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*entities.Plan, error) {
	var p entities.Plan
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error; err != nil {
		return nil, database.Report(r.logger, "find plan by name", err)
	}
	return &p, nil
}

// List retrieves all plans ordered by id.
func (r *Repository) List(ctx context.Context) ([]entities.Plan, error) {
	var plans []entities.Plan
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&plans).Error; err != nil {
		return nil, database.Report(r.logger, "list plans", err)
	}
	return plans, nil
}

// NameExists reports whether another plan uses the name.
func (r *Repository) NameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&entities.Plan{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, database.Report(r.logger, "check plan name", err)
	}
	return count > 0, nil
}

// Update overwrites a plan's attributes.
func (r *Repository) Update(ctx context.Context, p entities.Plan) error {
	result := r.db.WithContext(ctx).Model(&entities.Plan{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":            p.Name,
		"description":     p.Description,
		"duration_months": p.DurationMonths,
		"monthly_price":   p.MonthlyPrice,
	})
	if result.Error != nil {
		return database.Report(r.logger, "update plan", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.Report(r.logger, "update plan", database.NotFound("plan", p.ID))
	}
	r.logger.Info().Uint("id", p.ID).Msg("plan updated")
	return nil
}

// Delete removes a plan. Students and fees that referenced it keep existing
// without a plan.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Plan{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return database.NotFound("plan", id)
		}
		if err := tx.Model(&entities.Student{}).Where("plan_id = ?", id).Update("plan_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.MonthlyFee{}).Where("plan_id = ?", id).Update("plan_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Plan{}, id).Error
	})
	if err != nil {
		return database.Report(r.logger, "delete plan", err)
	}
	r.logger.Info().Uint("id", id).Msg("plan deleted")
	return nil
}
