package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrlokans/gymflow/internal/audit"
	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
)

// CatalogService manages plans and exercises.
type CatalogService struct {
	base
	plans     PlanStore
	exercises ExerciseStore
}

func NewCatalogService(plans PlanStore, exercises ExerciseStore, auditor *audit.Service, logger zerolog.Logger, opts ...Option) *CatalogService {
	return &CatalogService{
		base:      newBase(auditor, logger, "catalog", opts),
		plans:     plans,
		exercises: exercises,
	}
}

func (s *CatalogService) CreatePlan(ctx context.Context, p entities.Plan) (*entities.Plan, error) {
	if err := s.validator.Struct(p); err != nil {
		return nil, err
	}
	if err := nameFree(ctx, s.plans.NameExists, "plan", p.Name, 0); err != nil {
		return nil, err
	}
	created, err := s.plans.Create(ctx, p)
	if err != nil {
		s.audit.LogCreate(ctx, "plan", 0, p.Name, err)
		return nil, err
	}
	s.audit.LogCreate(ctx, "plan", created.ID, created.Name, nil)
	return created, nil
}

func (s *CatalogService) UpdatePlan(ctx context.Context, p entities.Plan) error {
	if err := s.validator.Struct(p); err != nil {
		return err
	}
	if err := nameFree(ctx, s.plans.NameExists, "plan", p.Name, p.ID); err != nil {
		return err
	}
	err := s.plans.Update(ctx, p)
	s.audit.LogUpdate(ctx, "plan", p.ID, p.Name, err)
	return err
}

// DeletePlan removes a plan; its students and fees keep existing without one.
func (s *CatalogService) DeletePlan(ctx context.Context, id uint) error {
	err := s.plans.Delete(ctx, id)
	s.audit.LogDelete(ctx, "plan", id, err)
	return err
}

func (s *CatalogService) Plan(ctx context.Context, id uint) (*entities.Plan, error) {
	return s.plans.FindByID(ctx, id)
}

func (s *CatalogService) Plans(ctx context.Context) ([]entities.Plan, error) {
	return s.plans.List(ctx)
}

func (s *CatalogService) CreateExercise(ctx context.Context, e entities.Exercise) (*entities.Exercise, error) {
	if err := s.validator.Struct(e); err != nil {
		return nil, err
	}
	if err := nameFree(ctx, s.exercises.NameExists, "exercise", e.Name, 0); err != nil {
		return nil, err
	}
	created, err := s.exercises.Create(ctx, e)
	if err != nil {
		s.audit.LogCreate(ctx, "exercise", 0, e.Name, err)
		return nil, err
	}
	s.audit.LogCreate(ctx, "exercise", created.ID, created.Name, nil)
	return created, nil
}

func (s *CatalogService) UpdateExercise(ctx context.Context, e entities.Exercise) error {
	if err := s.validator.Struct(e); err != nil {
		return err
	}
	if err := nameFree(ctx, s.exercises.NameExists, "exercise", e.Name, e.ID); err != nil {
		return err
	}
	err := s.exercises.Update(ctx, e)
	s.audit.LogUpdate(ctx, "exercise", e.ID, e.Name, err)
	return err
}

// DeleteExercise removes an exercise from the catalogue and from every workout.
func (s *CatalogService) DeleteExercise(ctx context.Context, id uint) error {
	err := s.exercises.Delete(ctx, id)
	s.audit.LogDelete(ctx, "exercise", id, err)
	return err
}

func (s *CatalogService) Exercise(ctx context.Context, id uint) (*entities.Exercise, error) {
	return s.exercises.FindByID(ctx, id)
}

// Exercises lists the catalogue, or one muscle group of it.
func (s *CatalogService) Exercises(ctx context.Context, muscleGroup string) ([]entities.Exercise, error) {
	if muscleGroup != "" {
		return s.exercises.ListByMuscleGroup(ctx, muscleGroup)
	}
	return s.exercises.List(ctx)
}

func (s *CatalogService) ExercisesOfWorkout(ctx context.Context, workoutID uint) ([]entities.Exercise, error) {
	return s.exercises.ListByWorkout(ctx, workoutID)
}

type nameCheck func(ctx context.Context, name string, excludeID uint) (bool, error)

func nameFree(ctx context.Context, exists nameCheck, entity, name string, excludeID uint) error {
	taken, err := exists(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return database.Conflict("%s name %q is already in use", entity, name)
	}
	return nil
}
