package services

import (
	"context"
	"time"

	"github.com/mrlokans/gymflow/internal/entities"
)

// PersonChecker answers uniqueness questions about the person data shared by
// students, employees and teachers.
type PersonChecker interface {
	ExistsByNationalIDOrEmail(ctx context.Context, nationalID, email string, excludeID uint) (bool, error)
}

type StudentStore interface {
	PersonChecker
	Create(ctx context.Context, s entities.Student) (*entities.Student, error)
	FindByID(ctx context.Context, id uint) (*entities.Student, error)
	FindByNationalID(ctx context.Context, nationalID string) (*entities.Student, error)
	List(ctx context.Context) ([]entities.Student, error)
	ListByPlan(ctx context.Context, planID uint) ([]entities.Student, error)
	Update(ctx context.Context, s entities.Student) error
	Delete(ctx context.Context, id uint) error
}

type EmployeeStore interface {
	PersonChecker
	Create(ctx context.Context, e entities.Employee) (*entities.Employee, error)
	FindByID(ctx context.Context, id uint) (*entities.Employee, error)
	List(ctx context.Context) ([]entities.Employee, error)
	ListByRole(ctx context.Context, role string) ([]entities.Employee, error)
	Update(ctx context.Context, e entities.Employee) error
	Delete(ctx context.Context, id uint) error
}

type TeacherStore interface {
	PersonChecker
	Create(ctx context.Context, t entities.Teacher) (*entities.Teacher, error)
	FindByID(ctx context.Context, id uint) (*entities.Teacher, error)
	FindByLicense(ctx context.Context, license string) (*entities.Teacher, error)
	List(ctx context.Context) ([]entities.Teacher, error)
	ListBySpecialty(ctx context.Context, specialty string) ([]entities.Teacher, error)
	LicenseExists(ctx context.Context, license string, excludeID uint) (bool, error)
	Update(ctx context.Context, t entities.Teacher) error
	Delete(ctx context.Context, id uint) error
}

type PlanStore interface {
	Create(ctx context.Context, p entities.Plan) (*entities.Plan, error)
	FindByID(ctx context.Context, id uint) (*entities.Plan, error)
	List(ctx context.Context) ([]entities.Plan, error)
	NameExists(ctx context.Context, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, p entities.Plan) error
	Delete(ctx context.Context, id uint) error
}

type ExerciseStore interface {
	Create(ctx context.Context, e entities.Exercise) (*entities.Exercise, error)
	FindByID(ctx context.Context, id uint) (*entities.Exercise, error)
	List(ctx context.Context) ([]entities.Exercise, error)
	ListByMuscleGroup(ctx context.Context, group string) ([]entities.Exercise, error)
	ListByWorkout(ctx context.Context, workoutID uint) ([]entities.Exercise, error)
	NameExists(ctx context.Context, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, e entities.Exercise) error
	Delete(ctx context.Context, id uint) error
}

// WorkoutStore covers workouts and their ordered exercise lists.
type WorkoutStore interface {
	Create(ctx context.Context, w entities.Workout, exerciseIDs []uint) (*entities.Workout, error)
	FindByID(ctx context.Context, id uint) (*entities.Workout, error)
	List(ctx context.Context) ([]entities.Workout, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]entities.Workout, error)
	ListByStudent(ctx context.Context, studentID uint) ([]entities.Workout, error)
	NameExists(ctx context.Context, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, w entities.Workout) error
	Delete(ctx context.Context, id uint) error

	AddExercise(ctx context.Context, we entities.WorkoutExercise) (*entities.WorkoutExercise, error)
	AddExercises(ctx context.Context, workoutID uint, exerciseIDs []uint) ([]entities.WorkoutExercise, error)
	ListExercises(ctx context.Context, workoutID uint) ([]entities.WorkoutExercise, error)
	UpdateExercise(ctx context.Context, we entities.WorkoutExercise) error
	RemoveExercise(ctx context.Context, workoutID, exerciseID uint) error
	MoveExercise(ctx context.Context, workoutID, exerciseID uint, target int) error
}

type AssignmentStore interface {
	Create(ctx context.Context, sw entities.StudentWorkout) (*entities.StudentWorkout, error)
	Find(ctx context.Context, studentID, workoutID uint) (*entities.StudentWorkout, error)
	ListByStudent(ctx context.Context, studentID uint) ([]entities.StudentWorkout, error)
	ListByWorkout(ctx context.Context, workoutID uint) ([]entities.StudentWorkout, error)
	ListActiveByStudent(ctx context.Context, studentID uint, today time.Time) ([]entities.StudentWorkout, error)
	Update(ctx context.Context, sw entities.StudentWorkout) error
	End(ctx context.Context, studentID, workoutID uint, today time.Time) error
	Renew(ctx context.Context, studentID, workoutID uint, days int, today time.Time) (time.Time, error)
	Delete(ctx context.Context, studentID, workoutID uint) error
}

type EvaluationStore interface {
	Create(ctx context.Context, e entities.Evaluation) (*entities.Evaluation, error)
	FindByID(ctx context.Context, id uint) (*entities.Evaluation, error)
	ListByStudent(ctx context.Context, studentID uint) ([]entities.Evaluation, error)
	Update(ctx context.Context, e entities.Evaluation) error
	Delete(ctx context.Context, id uint) error
}

type FeeStore interface {
	Create(ctx context.Context, f entities.MonthlyFee) (*entities.MonthlyFee, error)
	FindByID(ctx context.Context, id uint) (*entities.MonthlyFee, error)
	List(ctx context.Context) ([]entities.MonthlyFee, error)
	ListByStudent(ctx context.Context, studentID uint) ([]entities.MonthlyFee, error)
	ListByPlan(ctx context.Context, planID uint) ([]entities.MonthlyFee, error)
	ListByStatus(ctx context.Context, status entities.FeeStatus) ([]entities.MonthlyFee, error)
	ListOverdue(ctx context.Context, today time.Time) ([]entities.MonthlyFee, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]entities.MonthlyFee, error)
	ListPaidBetween(ctx context.Context, from, to time.Time) ([]entities.MonthlyFee, error)
	RegisterPayment(ctx context.Context, id uint, date time.Time, amount float64) error
	Generate(ctx context.Context, studentID, planID uint, months int, start time.Time) ([]entities.MonthlyFee, error)
	Update(ctx context.Context, f entities.MonthlyFee) error
	Delete(ctx context.Context, id uint) error
}
