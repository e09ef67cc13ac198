package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/gymflow/internal/audit"
	"github.com/mrlokans/gymflow/internal/entities"
)

// WorkoutService manages workouts, their exercise lists and the workouts
// assigned to students.
type WorkoutService struct {
	base
	workouts    WorkoutStore
	assignments AssignmentStore
}

func NewWorkoutService(workouts WorkoutStore, assignments AssignmentStore, auditor *audit.Service, logger zerolog.Logger, opts ...Option) *WorkoutService {
	return &WorkoutService{
		base:        newBase(auditor, logger, "workouts", opts),
		workouts:    workouts,
		assignments: assignments,
	}
}

// CreateWorkout stores a workout with exercises at positions 1..N in the
// given order. The creation date defaults to today.
func (s *WorkoutService) CreateWorkout(ctx context.Context, w entities.Workout, exerciseIDs []uint) (*entities.Workout, error) {
	if w.CreationDate.IsZero() {
		w.CreationDate = s.today()
	}
	if err := s.validator.Struct(w); err != nil {
		return nil, err
	}
	if err := uniqueIDs(exerciseIDs); err != nil {
		return nil, err
	}
	if err := nameFree(ctx, s.workouts.NameExists, "workout", w.Name, 0); err != nil {
		return nil, err
	}

	created, err := s.workouts.Create(ctx, w, exerciseIDs)
	if err != nil {
		s.audit.LogCreate(ctx, "workout", 0, w.Name, err)
		return nil, err
	}
	s.audit.LogCreate(ctx, "workout", created.ID, created.Name, nil)
	return created, nil
}

func (s *WorkoutService) UpdateWorkout(ctx context.Context, w entities.Workout) error {
	if err := s.validator.Struct(w); err != nil {
		return err
	}
	if err := nameFree(ctx, s.workouts.NameExists, "workout", w.Name, w.ID); err != nil {
		return err
	}
	err := s.workouts.Update(ctx, w)
	s.audit.LogUpdate(ctx, "workout", w.ID, w.Name, err)
	return err
}

// DeleteWorkout removes a workout, its exercise list and its assignments.
func (s *WorkoutService) DeleteWorkout(ctx context.Context, id uint) error {
	err := s.workouts.Delete(ctx, id)
	s.audit.LogDelete(ctx, "workout", id, err)
	return err
}

func (s *WorkoutService) Workout(ctx context.Context, id uint) (*entities.Workout, error) {
	return s.workouts.FindByID(ctx, id)
}

func (s *WorkoutService) Workouts(ctx context.Context) ([]entities.Workout, error) {
	return s.workouts.List(ctx)
}

func (s *WorkoutService) WorkoutsByTeacher(ctx context.Context, teacherID uint) ([]entities.Workout, error) {
	return s.workouts.ListByTeacher(ctx, teacherID)
}

func (s *WorkoutService) WorkoutsByStudent(ctx context.Context, studentID uint) ([]entities.Workout, error) {
	return s.workouts.ListByStudent(ctx, studentID)
}

// AddExercise appends an exercise, or inserts it at we.Position when set.
func (s *WorkoutService) AddExercise(ctx context.Context, we entities.WorkoutExercise) (*entities.WorkoutExercise, error) {
	if err := s.validator.Struct(we); err != nil {
		return nil, err
	}
	if we.Position < 0 {
		return nil, invalid("position must be positive")
	}
	added, err := s.workouts.AddExercise(ctx, we)
	position := we.Position
	if added != nil {
		position = added.Position
	}
	s.audit.LogReorder(ctx, we.WorkoutID, we.ExerciseID, "add", position, err)
	return added, err
}

// AddExercises appends several exercises with the default prescription.
func (s *WorkoutService) AddExercises(ctx context.Context, workoutID uint, exerciseIDs []uint) ([]entities.WorkoutExercise, error) {
	if err := uniqueIDs(exerciseIDs); err != nil {
		return nil, err
	}
	added, err := s.workouts.AddExercises(ctx, workoutID, exerciseIDs)
	for _, we := range added {
		s.audit.LogReorder(ctx, workoutID, we.ExerciseID, "add", we.Position, nil)
	}
	if err != nil {
		s.audit.LogReorder(ctx, workoutID, 0, "add", 0, err)
	}
	return added, err
}

func (s *WorkoutService) Exercises(ctx context.Context, workoutID uint) ([]entities.WorkoutExercise, error) {
	return s.workouts.ListExercises(ctx, workoutID)
}

// UpdateExercise changes the prescription of an exercise; a non-zero
// position also moves it.
func (s *WorkoutService) UpdateExercise(ctx context.Context, we entities.WorkoutExercise) error {
	if err := s.validator.Struct(we); err != nil {
		return err
	}
	err := s.workouts.UpdateExercise(ctx, we)
	s.audit.LogReorder(ctx, we.WorkoutID, we.ExerciseID, "update", we.Position, err)
	return err
}

func (s *WorkoutService) RemoveExercise(ctx context.Context, workoutID, exerciseID uint) error {
	err := s.workouts.RemoveExercise(ctx, workoutID, exerciseID)
	s.audit.LogReorder(ctx, workoutID, exerciseID, "remove", 0, err)
	return err
}

func (s *WorkoutService) MoveExercise(ctx context.Context, workoutID, exerciseID uint, target int) error {
	err := s.workouts.MoveExercise(ctx, workoutID, exerciseID, target)
	s.audit.LogReorder(ctx, workoutID, exerciseID, "move", target, err)
	return err
}

// Assign gives a workout to a student. The start date defaults to today.
func (s *WorkoutService) Assign(ctx context.Context, sw entities.StudentWorkout) (*entities.StudentWorkout, error) {
	if sw.StartDate.IsZero() {
		sw.StartDate = s.today()
	}
	if err := s.checkPeriod(sw); err != nil {
		return nil, err
	}
	created, err := s.assignments.Create(ctx, sw)
	s.audit.Record(ctx, audit.Entry{
		Type:        entities.AuditEventCreate,
		Action:      "assignment_create",
		Description: "Assigned workout to student",
		EntityType:  "student",
		EntityID:    sw.StudentID,
		Metadata:    map[string]any{"workout_id": sw.WorkoutID},
		Err:         err,
	})
	return created, err
}

func (s *WorkoutService) UpdateAssignment(ctx context.Context, sw entities.StudentWorkout) error {
	if err := s.checkPeriod(sw); err != nil {
		return err
	}
	err := s.assignments.Update(ctx, sw)
	s.audit.Record(ctx, audit.Entry{
		Type:        entities.AuditEventUpdate,
		Action:      "assignment_update",
		Description: "Updated workout assignment",
		EntityType:  "student",
		EntityID:    sw.StudentID,
		Metadata: map[string]any{
			"workout_id": sw.WorkoutID,
			"start_date": entities.FormatDate(sw.StartDate),
			"end_date":   entities.FormatOptionalDate(sw.EndDate),
		},
		Err: err,
	})
	return err
}

// EndAssignment closes an assignment as of today.
func (s *WorkoutService) EndAssignment(ctx context.Context, studentID, workoutID uint) error {
	today := s.today()
	err := s.assignments.End(ctx, studentID, workoutID, today)
	s.audit.Record(ctx, audit.Entry{
		Type:        entities.AuditEventUpdate,
		Action:      "assignment_end",
		Description: "Ended workout assignment",
		EntityType:  "student",
		EntityID:    studentID,
		Metadata:    map[string]any{"workout_id": workoutID, "end_date": entities.FormatDate(today)},
		Err:         err,
	})
	return err
}

// RenewAssignment extends an assignment by days and returns its new end date.
func (s *WorkoutService) RenewAssignment(ctx context.Context, studentID, workoutID uint, days int) (time.Time, error) {
	if days <= 0 {
		return time.Time{}, invalid("days must be greater than 0")
	}
	end, err := s.assignments.Renew(ctx, studentID, workoutID, days, s.today())
	md := map[string]any{"workout_id": workoutID, "days": days}
	if err == nil {
		md["end_date"] = entities.FormatDate(end)
	}
	s.audit.Record(ctx, audit.Entry{
		Type:        entities.AuditEventUpdate,
		Action:      "assignment_renew",
		Description: fmt.Sprintf("Renewed workout assignment by %d days", days),
		EntityType:  "student",
		EntityID:    studentID,
		Metadata:    md,
		Err:         err,
	})
	return end, err
}

func (s *WorkoutService) RemoveAssignment(ctx context.Context, studentID, workoutID uint) error {
	err := s.assignments.Delete(ctx, studentID, workoutID)
	s.audit.Record(ctx, audit.Entry{
		Type:       entities.AuditEventDelete,
		Action:     "assignment_delete",
		EntityType: "student",
		EntityID:   studentID,
		Metadata:   map[string]any{"workout_id": workoutID},
		Err:        err,
	})
	return err
}

func (s *WorkoutService) Assignment(ctx context.Context, studentID, workoutID uint) (*entities.StudentWorkout, error) {
	return s.assignments.Find(ctx, studentID, workoutID)
}

// Assignments lists a student's assignments; activeOnly keeps those covering today.
func (s *WorkoutService) Assignments(ctx context.Context, studentID uint, activeOnly bool) ([]entities.StudentWorkout, error) {
	if activeOnly {
		return s.assignments.ListActiveByStudent(ctx, studentID, s.today())
	}
	return s.assignments.ListByStudent(ctx, studentID)
}

func (s *WorkoutService) AssignmentsOfWorkout(ctx context.Context, workoutID uint) ([]entities.StudentWorkout, error) {
	return s.assignments.ListByWorkout(ctx, workoutID)
}

// Today is the date the service uses for derived fields.
func (s *WorkoutService) Today() time.Time {
	return s.today()
}

func (s *WorkoutService) checkPeriod(sw entities.StudentWorkout) error {
	if err := s.validator.Struct(sw); err != nil {
		return err
	}
	if sw.EndDate != nil && entities.DateOf(*sw.EndDate).Before(entities.DateOf(sw.StartDate)) {
		return invalid("end date %s is before start date %s",
			entities.FormatDate(*sw.EndDate), entities.FormatDate(sw.StartDate))
	}
	return nil
}

func uniqueIDs(ids []uint) error {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return invalid("exercise %d is listed twice", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
