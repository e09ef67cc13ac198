package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/gymflow/internal/audit"
	"github.com/mrlokans/gymflow/internal/entities"
)

// MaxGeneratedMonths bounds a single fee generation.
const MaxGeneratedMonths = 36

// BillingService manages monthly fees and payments.
type BillingService struct {
	base
	fees FeeStore
}

func NewBillingService(fees FeeStore, auditor *audit.Service, logger zerolog.Logger, opts ...Option) *BillingService {
	return &BillingService{
		base: newBase(auditor, logger, "billing", opts),
		fees: fees,
	}
}

// CreateFee stores a single fee. An empty status means Pending.
func (s *BillingService) CreateFee(ctx context.Context, f entities.MonthlyFee) (*entities.MonthlyFee, error) {
	if f.Status == "" {
		f.Status = entities.FeeStatusPending
	}
	if err := s.validator.Struct(f); err != nil {
		return nil, err
	}
	created, err := s.fees.Create(ctx, f)
	if err != nil {
		s.audit.LogCreate(ctx, "fee", 0, entities.FormatDate(f.DueDate), err)
		return nil, err
	}
	s.audit.LogCreate(ctx, "fee", created.ID, entities.FormatDate(created.DueDate), nil)
	return created, nil
}

func (s *BillingService) UpdateFee(ctx context.Context, f entities.MonthlyFee) error {
	if err := s.validator.Struct(f); err != nil {
		return err
	}
	err := s.fees.Update(ctx, f)
	s.audit.LogUpdate(ctx, "fee", f.ID, entities.FormatDate(f.DueDate), err)
	return err
}

func (s *BillingService) DeleteFee(ctx context.Context, id uint) error {
	err := s.fees.Delete(ctx, id)
	s.audit.LogDelete(ctx, "fee", id, err)
	return err
}

// RegisterPayment marks a fee as paid. A zero date means today and a zero
// amount means the amount billed.
func (s *BillingService) RegisterPayment(ctx context.Context, id uint, date time.Time, amount float64) error {
	if amount < 0 {
		return invalid("amount must not be negative")
	}
	if date.IsZero() {
		date = s.today()
	}
	if amount == 0 {
		fee, err := s.fees.FindByID(ctx, id)
		if err != nil {
			return err
		}
		amount = fee.Amount
	}
	err := s.fees.RegisterPayment(ctx, id, date, amount)
	s.audit.LogPayment(ctx, id, date, amount, err)
	return err
}

// GenerateFees creates months pending fees for a student starting at start,
// or today when start is zero. It returns the fees and the correlation id
// of their audit events.
func (s *BillingService) GenerateFees(ctx context.Context, studentID, planID uint, months int, start time.Time) ([]entities.MonthlyFee, string, error) {
	if months <= 0 || months > MaxGeneratedMonths {
		return nil, "", invalid("months must be between 1 and %d", MaxGeneratedMonths)
	}
	if start.IsZero() {
		start = s.today()
	}
	generated, err := s.fees.Generate(ctx, studentID, planID, months, start)
	correlationID := s.audit.LogGenerate(ctx, studentID, planID, generated, err)
	return generated, correlationID, err
}

func (s *BillingService) Fee(ctx context.Context, id uint) (*entities.MonthlyFee, error) {
	return s.fees.FindByID(ctx, id)
}

func (s *BillingService) Fees(ctx context.Context) ([]entities.MonthlyFee, error) {
	return s.fees.List(ctx)
}

func (s *BillingService) FeesOfStudent(ctx context.Context, studentID uint) ([]entities.MonthlyFee, error) {
	return s.fees.ListByStudent(ctx, studentID)
}

func (s *BillingService) FeesOfPlan(ctx context.Context, planID uint) ([]entities.MonthlyFee, error) {
	return s.fees.ListByPlan(ctx, planID)
}

func (s *BillingService) FeesByStatus(ctx context.Context, status entities.FeeStatus) ([]entities.MonthlyFee, error) {
	if status != entities.FeeStatusPending && status != entities.FeeStatusPaid {
		return nil, invalid("status must be one of: %s %s", entities.FeeStatusPending, entities.FeeStatusPaid)
	}
	return s.fees.ListByStatus(ctx, status)
}

// Overdue lists unpaid fees due before today.
func (s *BillingService) Overdue(ctx context.Context) ([]entities.MonthlyFee, error) {
	return s.fees.ListOverdue(ctx, s.today())
}

func (s *BillingService) DueBetween(ctx context.Context, from, to time.Time) ([]entities.MonthlyFee, error) {
	if to.Before(from) {
		return nil, invalid("period end is before its start")
	}
	return s.fees.ListDueBetween(ctx, from, to)
}

func (s *BillingService) PaidBetween(ctx context.Context, from, to time.Time) ([]entities.MonthlyFee, error) {
	if to.Before(from) {
		return nil, invalid("period end is before its start")
	}
	return s.fees.ListPaidBetween(ctx, from, to)
}

// Today is the date the service uses to decide what is overdue.
func (s *BillingService) Today() time.Time {
	return s.today()
}
