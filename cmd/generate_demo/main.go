// Command generate_demo creates a demo gym database with plans, staff,
// students, workouts, evaluations and fees.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/gymflow/internal/config"
	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
	"github.com/mrlokans/gymflow/internal/entrypoint"
	"github.com/mrlokans/gymflow/internal/logging"
)

const defaultDemoDatabasePath = "./demo/gymflow-demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	cfg := config.NewConfig()
	cfg.Database.Path = *dbPath
	cfg.Database.OperationTimeout = time.Minute
	cfg.Log.Level = "info"
	cfg.Log.SQLLevel = "silent"

	logger := logging.New(cfg.Log)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Str("path", *dbPath).Msg("failed to generate demo database")
	}
}

// run recreates the database at cfg.Database.Path and fills it with demo data.
// Rows that fail to insert are logged and skipped.
func run(cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().Str("path", cfg.Database.Path).Msg("generating demo database")

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(cfg.Database.Path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing demo database: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create demo directory: %w", err)
	}

	// Repositories log every row at info; keep them quiet and report only failures.
	quiet := logger.Level(zerolog.WarnLevel)
	db, err := database.NewDatabase(cfg.Database, quiet, logging.NewGormLogger(quiet, cfg.Log.SQLLevel))
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	app := entrypoint.NewWithDatabase(cfg, db, quiet)
	defer app.Close()

	ctx, cancel := app.Context()
	defer cancel()

	plans := createPlans(ctx, app)
	exercises := createExercises(ctx, app)
	teachers := createTeachers(ctx, app)
	createReception(ctx, app)
	students := createStudents(ctx, app, plans)
	createWorkouts(ctx, app, teachers, exercises, students)
	createEvaluations(ctx, app, teachers, students)
	createFees(ctx, app, students)

	logger.Info().
		Int("plans", len(plans)).
		Int("exercises", len(exercises)).
		Int("teachers", len(teachers)).
		Int("students", len(students)).
		Msg("demo database generated")
	return nil
}

func createPlans(ctx context.Context, app *entrypoint.App) map[string]entities.Plan {
	demo := []entities.Plan{
		{Name: "Monthly", Description: "Month to month, no commitment", DurationMonths: 1, MonthlyPrice: 129.90},
		{Name: "Quarterly", Description: "Three months", DurationMonths: 3, MonthlyPrice: 109.90},
		{Name: "Annual", Description: "Twelve months, best price", DurationMonths: 12, MonthlyPrice: 99.90},
	}

	plans := make(map[string]entities.Plan)
	for _, p := range demo {
		created, err := app.Catalog.CreatePlan(ctx, p)
		if err != nil {
			app.Logger.Error().Err(err).Str("plan", p.Name).Msg("failed to create plan")
			continue
		}
		plans[created.Name] = *created
	}
	return plans
}

func createExercises(ctx context.Context, app *entrypoint.App) map[string]uint {
	demo := []entities.Exercise{
		{Name: "Back squat", MuscleGroup: "Legs"},
		{Name: "Leg press", MuscleGroup: "Legs"},
		{Name: "Romanian deadlift", MuscleGroup: "Legs"},
		{Name: "Bench press", MuscleGroup: "Chest"},
		{Name: "Incline dumbbell press", MuscleGroup: "Chest"},
		{Name: "Pull-up", MuscleGroup: "Back"},
		{Name: "Barbell row", MuscleGroup: "Back"},
		{Name: "Overhead press", MuscleGroup: "Shoulders"},
		{Name: "Lateral raise", MuscleGroup: "Shoulders"},
		{Name: "Plank", MuscleGroup: "Core", Description: "Hold for time; repetitions count seconds"},
	}

	ids := make(map[string]uint)
	for _, e := range demo {
		created, err := app.Catalog.CreateExercise(ctx, e)
		if err != nil {
			app.Logger.Error().Err(err).Str("exercise", e.Name).Msg("failed to create exercise")
			continue
		}
		ids[created.Name] = created.ID
	}
	return ids
}

func createTeachers(ctx context.Context, app *entrypoint.App) []entities.Teacher {
	demo := []entities.Teacher{
		{
			Employee: entities.Employee{
				Person: entities.Person{Name: "Carla Mendes", BirthDate: entities.Date(1988, time.April, 2),
					NationalID: "52998224725", Email: "carla.mendes@gymflow.demo", Phone: "21988887777"},
				AdmissionDate: entities.Date(2019, time.February, 1),
				Salary:        4800,
			},
			Specialty: "Strength",
			License:   "CREF-012345",
		},
		{
			Employee: entities.Employee{
				Person: entities.Person{Name: "Rafael Costa", BirthDate: entities.Date(1993, time.September, 17),
					NationalID: "11144477735", Email: "rafael.costa@gymflow.demo"},
				AdmissionDate: entities.Date(2022, time.August, 15),
				Salary:        4100,
			},
			Specialty: "Conditioning",
			License:   "CREF-067890",
		},
	}

	var teachers []entities.Teacher
	for _, t := range demo {
		created, err := app.Members.RegisterTeacher(ctx, t)
		if err != nil {
			app.Logger.Error().Err(err).Str("teacher", t.Name()).Msg("failed to register teacher")
			continue
		}
		teachers = append(teachers, *created)
	}
	return teachers
}

func createReception(ctx context.Context, app *entrypoint.App) {
	e := entities.Employee{
		Person: entities.Person{Name: "Júlia Rocha", BirthDate: entities.Date(2000, time.January, 23),
			NationalID: "39053344705", Email: "julia.rocha@gymflow.demo"},
		Role:          "Reception",
		AdmissionDate: entities.Date(2024, time.March, 4),
		Salary:        2300,
	}
	if _, err := app.Members.RegisterEmployee(ctx, e); err != nil {
		app.Logger.Error().Err(err).Str("employee", e.Person.Name).Msg("failed to register employee")
	}
}

type demoStudent struct {
	Person entities.Person
	Plan   string
	Months int // months since enrollment
}

func createStudents(ctx context.Context, app *entrypoint.App, plans map[string]entities.Plan) []entities.Student {
	demo := []demoStudent{
		{entities.Person{Name: "Ana Lima", BirthDate: entities.Date(1995, time.June, 20), NationalID: "70413462072", Email: "ana.lima@gymflow.demo"}, "Annual", 7},
		{entities.Person{Name: "Bruno Alves", BirthDate: entities.Date(1990, time.November, 5), NationalID: "28625587887", Email: "bruno.alves@gymflow.demo"}, "Monthly", 2},
		{entities.Person{Name: "Camila Souza", BirthDate: entities.Date(2001, time.March, 12), NationalID: "84434895894", Email: "camila.souza@gymflow.demo"}, "Quarterly", 4},
		{entities.Person{Name: "Diego Martins", BirthDate: entities.Date(1979, time.July, 30), NationalID: "35388416060", Email: "diego.martins@gymflow.demo"}, "Annual", 11},
	}

	today := app.Workouts.Today()
	var students []entities.Student
	for _, d := range demo {
		s := entities.Student{
			Person:         d.Person,
			EnrollmentDate: entities.AddMonths(today, -d.Months),
		}
		if p, ok := plans[d.Plan]; ok {
			s.PlanID = &p.ID
			signed := s.EnrollmentDate
			s.SignatureDate = &signed
		}
		created, err := app.Members.RegisterStudent(ctx, s)
		if err != nil {
			app.Logger.Error().Err(err).Str("student", d.Person.Name).Msg("failed to register student")
			continue
		}
		students = append(students, *created)
	}
	return students
}

func createWorkouts(ctx context.Context, app *entrypoint.App, teachers []entities.Teacher, exercises map[string]uint, students []entities.Student) {
	if len(teachers) == 0 {
		return
	}
	demo := []struct {
		Workout   entities.Workout
		Exercises []string
	}{
		{entities.Workout{Name: "Lower body A", Notes: "Rest 90s between sets"}, []string{"Back squat", "Romanian deadlift", "Leg press", "Plank"}},
		{entities.Workout{Name: "Upper body A"}, []string{"Bench press", "Barbell row", "Overhead press", "Pull-up"}},
		{entities.Workout{Name: "Upper body B"}, []string{"Incline dumbbell press", "Pull-up", "Lateral raise"}},
	}

	today := app.Workouts.Today()
	for i, d := range demo {
		teacherID := teachers[i%len(teachers)].ID()
		d.Workout.TeacherID = &teacherID

		var ids []uint
		for _, name := range d.Exercises {
			if id, ok := exercises[name]; ok {
				ids = append(ids, id)
			}
		}
		w, err := app.Workouts.CreateWorkout(ctx, d.Workout, ids)
		if err != nil {
			app.Logger.Error().Err(err).Str("workout", d.Workout.Name).Msg("failed to create workout")
			continue
		}

		for j, s := range students {
			if (i+j)%2 != 0 {
				continue
			}
			end := today.AddDate(0, 0, 30-20*j)
			_, err := app.Workouts.Assign(ctx, entities.StudentWorkout{
				StudentID: s.PersonID,
				WorkoutID: w.ID,
				StartDate: today.AddDate(0, -2, 0),
				EndDate:   &end,
			})
			if err != nil {
				app.Logger.Error().Err(err).Str("workout", w.Name).Str("student", s.Person.Name).Msg("failed to assign workout")
			}
		}
	}
}

func createEvaluations(ctx context.Context, app *entrypoint.App, teachers []entities.Teacher, students []entities.Student) {
	today := app.Workouts.Today()
	for i, s := range students {
		var teacherID *uint
		if len(teachers) > 0 {
			id := teachers[i%len(teachers)].ID()
			teacherID = &id
		}
		height := 1.62 + float64(i)*0.06
		for k, weight := range []float64{78 + float64(i)*4, 76.5 + float64(i)*4, 75 + float64(i)*4} {
			w, h := weight, height
			_, err := app.Evaluations.Record(ctx, entities.Evaluation{
				StudentID: s.PersonID,
				TeacherID: teacherID,
				Date:      entities.AddMonths(today, k-2),
				Weight:    &w,
				Height:    &h,
			})
			if err != nil {
				app.Logger.Error().Err(err).Str("student", s.Person.Name).Msg("failed to record evaluation")
			}
		}
	}
}

func createFees(ctx context.Context, app *entrypoint.App, students []entities.Student) {
	today := app.Workouts.Today()
	for _, s := range students {
		if s.PlanID == nil {
			continue
		}
		fees, _, err := app.Billing.GenerateFees(ctx, s.PersonID, *s.PlanID, 3, entities.AddMonths(today, -2))
		if err != nil {
			app.Logger.Error().Err(err).Str("student", s.Person.Name).Msg("failed to generate fees")
			continue
		}
		// The oldest fee is paid on time; the second stays overdue for half of the students.
		if err := app.Billing.RegisterPayment(ctx, fees[0].ID, fees[0].DueDate, 0); err != nil {
			app.Logger.Error().Err(err).Uint("fee", fees[0].ID).Msg("failed to register payment")
		}
		if s.PersonID%2 == 0 {
			if err := app.Billing.RegisterPayment(ctx, fees[1].ID, fees[1].DueDate.AddDate(0, 0, 3), 0); err != nil {
				app.Logger.Error().Err(err).Uint("fee", fees[1].ID).Msg("failed to register payment")
			}
		}
	}
}
