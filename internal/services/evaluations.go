package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrlokans/gymflow/internal/audit"
	"github.com/mrlokans/gymflow/internal/entities"
)

// EvaluationService records physical evaluations and reports on them.
type EvaluationService struct {
	base
	evaluations EvaluationStore
}

func NewEvaluationService(evaluations EvaluationStore, auditor *audit.Service, logger zerolog.Logger, opts ...Option) *EvaluationService {
	return &EvaluationService{
		base:        newBase(auditor, logger, "evaluations", opts),
		evaluations: evaluations,
	}
}

// EvaluationReport is an evaluation with its derived measures.
type EvaluationReport struct {
	Evaluation entities.Evaluation
	BMI        float64
	HasBMI     bool
	Category   entities.BMICategory
	// Comparison is nil for a student's first evaluation.
	Comparison *entities.EvaluationComparison
}

// Record stores an evaluation. The date defaults to today.
func (s *EvaluationService) Record(ctx context.Context, e entities.Evaluation) (*entities.Evaluation, error) {
	if e.Date.IsZero() {
		e.Date = s.today()
	}
	if err := s.validator.Struct(e); err != nil {
		return nil, err
	}
	created, err := s.evaluations.Create(ctx, e)
	if err != nil {
		s.audit.LogCreate(ctx, "evaluation", 0, entities.FormatDate(e.Date), err)
		return nil, err
	}
	s.audit.LogCreate(ctx, "evaluation", created.ID, entities.FormatDate(created.Date), nil)
	return created, nil
}

func (s *EvaluationService) Update(ctx context.Context, e entities.Evaluation) error {
	if err := s.validator.Struct(e); err != nil {
		return err
	}
	err := s.evaluations.Update(ctx, e)
	s.audit.LogUpdate(ctx, "evaluation", e.ID, entities.FormatDate(e.Date), err)
	return err
}

func (s *EvaluationService) Delete(ctx context.Context, id uint) error {
	err := s.evaluations.Delete(ctx, id)
	s.audit.LogDelete(ctx, "evaluation", id, err)
	return err
}

func (s *EvaluationService) Evaluation(ctx context.Context, id uint) (*entities.Evaluation, error) {
	return s.evaluations.FindByID(ctx, id)
}

// History lists a student's evaluations, most recent first.
func (s *EvaluationService) History(ctx context.Context, studentID uint) ([]entities.Evaluation, error) {
	return s.evaluations.ListByStudent(ctx, studentID)
}

// Report computes BMI, category and the change since the student's previous
// evaluation.
func (s *EvaluationService) Report(ctx context.Context, id uint) (*EvaluationReport, error) {
	e, err := s.evaluations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.evaluations.ListByStudent(ctx, e.StudentID)
	if err != nil {
		return nil, err
	}

	bmi, ok := e.BMI()
	report := &EvaluationReport{
		Evaluation: *e,
		BMI:        bmi,
		HasBMI:     ok,
		Category:   entities.BMICategoryOf(bmi, ok),
	}
	for i := range history {
		if history[i].ID == e.ID && i+1 < len(history) {
			cmp := entities.CompareEvaluations(*e, history[i+1])
			report.Comparison = &cmp
			break
		}
	}
	return report, nil
}
