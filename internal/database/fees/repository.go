// Package fees provides database operations for monthly fees.
package fees

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
)

// Repository handles all monthly fee database operations.
type Repository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewRepository creates a new fees repository.
func NewRepository(db *gorm.DB, logger zerolog.Logger) *Repository {
	return &Repository{db: db, logger: logger.With().Str("repository", "fees").Logger()}
}

// Create inserts a fee. An empty status is stored as Pending.
func (r *Repository) Create(ctx context.Context, f entities.MonthlyFee) (*entities.MonthlyFee, error) {
	f.ID = 0
	f.Student = nil
	f.Plan = nil
	f.DueDate = entities.DateOf(f.DueDate)
	if f.Status == "" {
		f.Status = entities.FeeStatusPending
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&f).Error; err != nil {
		return nil, database.Report(r.logger, "create fee", err)
	}
	r.logger.Info().Uint("id", f.ID).Float64("amount", f.Amount).Msg("fee created")
	return &f, nil
}

// FindByID retrieves a fee by id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.MonthlyFee, error) {
	var f entities.MonthlyFee
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, database.Report(r.logger, "find fee", err)
	}
	return &f, nil
}

// List retrieves all fees by due date.
func (r *Repository) List(ctx context.Context) ([]entities.MonthlyFee, error) {
	return r.list("list fees", r.db.WithContext(ctx))
}

func (r *Repository) ListByStudent(ctx context.Context, studentID uint) ([]entities.MonthlyFee, error) {
	return r.list("list fees by student", r.db.WithContext(ctx).Where("student_id = ?", studentID))
}

func (r *Repository) ListByPlan(ctx context.Context, planID uint) ([]entities.MonthlyFee, error) {
	return r.list("list fees by plan", r.db.WithContext(ctx).Where("plan_id = ?", planID))
}

func (r *Repository) ListByStatus(ctx context.Context, status entities.FeeStatus) ([]entities.MonthlyFee, error) {
	return r.list("list fees by status", r.db.WithContext(ctx).Where("status = ?", status))
}

// ListOverdue retrieves unpaid fees whose due date is before today.
func (r *Repository) ListOverdue(ctx context.Context, today time.Time) ([]entities.MonthlyFee, error) {
	q := r.db.WithContext(ctx).
		Where("status <> ?", entities.FeeStatusPaid).
		Where("due_date < ?", entities.DateOf(today))
	return r.list("list overdue fees", q)
}

// ListDueBetween retrieves fees due within [from, to].
func (r *Repository) ListDueBetween(ctx context.Context, from, to time.Time) ([]entities.MonthlyFee, error) {
	q := r.db.WithContext(ctx).Where("due_date BETWEEN ? AND ?", entities.DateOf(from), entities.DateOf(to))
	return r.list("list fees by due period", q)
}

// ListPaidBetween retrieves fees paid within [from, to].
func (r *Repository) ListPaidBetween(ctx context.Context, from, to time.Time) ([]entities.MonthlyFee, error) {
	q := r.db.WithContext(ctx).Where("payment_date BETWEEN ? AND ?", entities.DateOf(from), entities.DateOf(to))
	return r.list("list fees by payment period", q)
}

func (r *Repository) list(op string, q *gorm.DB) ([]entities.MonthlyFee, error) {
	var list []entities.MonthlyFee
	if err := q.Order("due_date ASC, id ASC").Find(&list).Error; err != nil {
		return nil, database.Report(r.logger, op, err)
	}
	return list, nil
}

// RegisterPayment marks a fee as paid on date with the amount received.
func (r *Repository) RegisterPayment(ctx context.Context, id uint, date time.Time, amount float64) error {
	result := r.db.WithContext(ctx).Model(&entities.MonthlyFee{}).Where("id = ?", id).Updates(map[string]any{
		"payment_date": entities.DateOf(date),
		"amount":       amount,
		"status":       entities.FeeStatusPaid,
	})
	if result.Error != nil {
		return database.Report(r.logger, "register payment", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.Report(r.logger, "register payment", database.NotFound("fee", id))
	}
	r.logger.Info().Uint("id", id).Float64("amount", amount).Msg("payment registered")
	return nil
}

// Generate creates months pending fees for a student, priced at the plan's
// monthly price and due on start, start+1 month and so on. Either every fee
// is stored or none is.
func (r *Repository) Generate(ctx context.Context, studentID, planID uint, months int, start time.Time) ([]entities.MonthlyFee, error) {
	var generated []entities.MonthlyFee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var students int64
		if err := tx.Model(&entities.Student{}).Where("person_id = ?", studentID).Count(&students).Error; err != nil {
			return err
		}
		if students == 0 {
			return database.NotFound("student", studentID)
		}
		var plans []entities.Plan
		if err := tx.Where("id = ?", planID).Limit(1).Find(&plans).Error; err != nil {
			return err
		}
		if len(plans) == 0 {
			return database.NotFound("plan", planID)
		}
		plan := plans[0]

		start = entities.DateOf(start)
		generated = make([]entities.MonthlyFee, 0, months)
		for i := 0; i < months; i++ {
			generated = append(generated, entities.MonthlyFee{
				StudentID: &studentID,
				PlanID:    &planID,
				DueDate:   entities.AddMonths(start, i),
				Amount:    plan.MonthlyPrice,
				Status:    entities.FeeStatusPending,
			})
		}
		if len(generated) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&generated).Error
	})
	if err != nil {
		return nil, database.Report(r.logger, "generate fees", err)
	}
	r.logger.Info().Uint("student_id", studentID).Uint("plan_id", planID).Int("months", months).Msg("fees generated")
	return generated, nil
}

// Update overwrites a fee's attributes.
func (r *Repository) Update(ctx context.Context, f entities.MonthlyFee) error {
	var paid *time.Time
	if f.PaymentDate != nil {
		d := entities.DateOf(*f.PaymentDate)
		paid = &d
	}
	result := r.db.WithContext(ctx).Model(&entities.MonthlyFee{}).Where("id = ?", f.ID).Updates(map[string]any{
		"student_id":   f.StudentID,
		"plan_id":      f.PlanID,
		"due_date":     entities.DateOf(f.DueDate),
		"payment_date": paid,
		"amount":       f.Amount,
		"status":       f.Status,
	})
	if result.Error != nil {
		return database.Report(r.logger, "update fee", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.Report(r.logger, "update fee", database.NotFound("fee", f.ID))
	}
	r.logger.Info().Uint("id", f.ID).Msg("fee updated")
	return nil
}

// Delete removes a fee.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.MonthlyFee{}, id)
	if result.Error != nil {
		return database.Report(r.logger, "delete fee", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.Report(r.logger, "delete fee", database.NotFound("fee", id))
	}
	r.logger.Info().Uint("id", id).Msg("fee deleted")
	return nil
}
