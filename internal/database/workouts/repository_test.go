package workouts

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/database/dbtest"
	"github.com/mrlokans/gymflow/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	db := dbtest.New(t)
	return NewRepository(db.DB, zerolog.Nop()), db.DB
}

func seedExercises(t *testing.T, db *gorm.DB, names ...string) []uint {
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		ex := entities.Exercise{Name: name, MuscleGroup: "Full body"}
		require.NoError(t, db.Create(&ex).Error)
		ids = append(ids, ex.ID)
	}
	return ids
}

func newWorkout(name string) entities.Workout {
	return entities.Workout{Name: name, CreationDate: entities.Date(2026, time.October, 1)}
}

// order returns exercise ids by position and checks positions are 1..N.
func order(t *testing.T, repo *Repository, workoutID uint) []uint {
	t.Helper()
	rows, err := repo.ListExercises(context.Background(), workoutID)
	require.NoError(t, err)
	ids := make([]uint, len(rows))
	for i, row := range rows {
		require.Equal(t, i+1, row.Position, "positions must be dense")
		ids[i] = row.ExerciseID
	}
	return ids
}

func TestRepository_Create_WithExercises(t *testing.T) {
	repo, db := setupTestDB(t)
	ex := seedExercises(t, db, "Squat", "Bench press", "Deadlift")

	created, err := repo.Create(context.Background(), newWorkout("Strength A"), ex)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	require.Len(t, created.Exercises, 3)
	for i, we := range created.Exercises {
		assert.Equal(t, i+1, we.Position)
		assert.Equal(t, ex[i], we.ExerciseID)
		assert.Equal(t, 12, we.Repetitions)
		assert.Equal(t, 3, we.Sets)
		assert.Equal(t, 0.0, we.Load)
	}
	assert.Equal(t, "Squat", created.Exercises[0].Exercise.Name)
}

func TestRepository_Create_UnknownExerciseRollsBack(t *testing.T) {
	repo, db := setupTestDB(t)
	ex := seedExercises(t, db, "Squat")

	_, err := repo.Create(context.Background(), newWorkout("Broken"), []uint{ex[0], 999})
	assert.ErrorIs(t, err, database.ErrMissingReference)

	var workouts int64
	require.NoError(t, db.Model(&entities.Workout{}).Count(&workouts).Error)
	assert.Zero(t, workouts)
}

func TestRepository_Create_DuplicateName(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newWorkout("Strength A"), nil)
	require.NoError(t, err)

	_, err = repo.Create(ctx, newWorkout("Strength A"), nil)
	assert.ErrorIs(t, err, database.ErrConflict)

	exists, err := repo.NameExists(ctx, "Strength A", 0)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRepository_WithExerciseDefaults(t *testing.T) {
	db := dbtest.New(t)
	repo := NewRepository(db.DB, zerolog.Nop(), WithExerciseDefaults(ExerciseDefaults{Repetitions: 8, Sets: 5, Load: 20}))
	ex := seedExercises(t, db.DB, "Squat")

	created, err := repo.Create(context.Background(), newWorkout("Heavy"), ex)
	require.NoError(t, err)
	require.Len(t, created.Exercises, 1)
	assert.Equal(t, 8, created.Exercises[0].Repetitions)
	assert.Equal(t, 5, created.Exercises[0].Sets)
	assert.Equal(t, 20.0, created.Exercises[0].Load)
}

func TestRepository_AddExercise_Appends(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	ex := seedExercises(t, db, "Squat", "Row")

	w, err := repo.Create(ctx, newWorkout("Empty"), nil)
	require.NoError(t, err)

	first, err := repo.AddExercise(ctx, entities.WorkoutExercise{WorkoutID: w.ID, ExerciseID: ex[0], Repetitions: 10, Sets: 4, Load: 60})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, "Squat", first.Exercise.Name)

	second, err := repo.AddExercise(ctx, entities.WorkoutExercise{WorkoutID: w.ID, ExerciseID: ex[1]})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)
}

func TestRepository_AddExercise_AtPosition(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	ex := seedExercises(t, db, "A", "B", "C", "D")

	w, err := repo.Create(ctx, newWorkout("W"), ex[:3])
	require.NoError(t, err)

	added, err := repo.AddExercise(ctx, entities.WorkoutExercise{WorkoutID: w.ID, ExerciseID: ex[3], Position: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, added.Position)
	assert.Equal(t, []uint{ex[3], ex[0], ex[1], ex[2]}, order(t, repo, w.ID))
}

func TestRepository_AddExercise_Errors(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	ex := seedExercises(t, db, "A", "B")

	w, err := repo.Create(ctx, newWorkout("W"), ex[:1])
	require.NoError(t, err)

	_, err = repo.AddExercise(ctx, entities.WorkoutExercise{WorkoutID: w.ID, ExerciseID: ex[0]})
	assert.ErrorIs(t, err, database.ErrConflict, "an exercise appears once per workout")

	_, err = repo.AddExercise(ctx, entities.WorkoutExercise{WorkoutID: w.ID, ExerciseID: ex[1], Position: 5})
	assert.ErrorIs(t, err, database.ErrInvalidPosition)

	_, err = repo.AddExercise(ctx, entities.WorkoutExercise{WorkoutID: 404, ExerciseID: ex[1]})
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = repo.AddExercise(ctx, entities.WorkoutExercise{WorkoutID: w.ID, ExerciseID: 404})
	assert.ErrorIs(t, err, database.ErrMissingReference)

	assert.Equal(t, []uint{ex[0]}, order(t, repo, w.ID))
}

func TestRepository_AddExercises_ContinuesNumbering(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	ex := seedExercises(t, db, "A", "B", "C")

	w, err := repo.Create(ctx, newWorkout("W"), ex[:1])
	require.NoError(t, err)

	added, err := repo.AddExercises(ctx, w.ID, ex[1:])
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, 2, added[0].Position)
	assert.Equal(t, 3, added[1].Position)

	_, err = repo.AddExercises(ctx, 404, ex)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_RemoveExercise_Resequences(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	ex := seedExercises(t, db, "A", "B", "C")

	w, err := repo.Create(ctx, newWorkout("W"), ex)
	require.NoError(t, err)

	require.NoError(t, repo.RemoveExercise(ctx, w.ID, ex[1]))
	assert.Equal(t, []uint{ex[0], ex[2]}, order(t, repo, w.ID))

	err = repo.RemoveExercise(ctx, w.ID, ex[1])
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Equal(t, []uint{ex[0], ex[2]}, order(t, repo, w.ID))
}

func TestRepository_MoveExercise(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	ex := seedExercises(t, db, "A", "B", "C", "D", "E")

	w, err := repo.Create(ctx, newWorkout("W"), ex)
	require.NoError(t, err)

	t.Run("forward", func(t *testing.T) {
		require.NoError(t, repo.MoveExercise(ctx, w.ID, ex[0], 4))
		assert.Equal(t, []uint{ex[1], ex[2], ex[3], ex[0], ex[4]}, order(t, repo, w.ID))
	})

	t.Run("backward", func(t *testing.T) {
		require.NoError(t, repo.MoveExercise(ctx, w.ID, ex[4], 2))
		assert.Equal(t, []uint{ex[1], ex[4], ex[2], ex[3], ex[0]}, order(t, repo, w.ID))
	})

	t.Run("same position", func(t *testing.T) {
		require.NoError(t, repo.MoveExercise(ctx, w.ID, ex[2], 3))
		assert.Equal(t, []uint{ex[1], ex[4], ex[2], ex[3], ex[0]}, order(t, repo, w.ID))
	})

	t.Run("out of range", func(t *testing.T) {
		assert.ErrorIs(t, repo.MoveExercise(ctx, w.ID, ex[2], 0), database.ErrInvalidPosition)
		assert.ErrorIs(t, repo.MoveExercise(ctx, w.ID, ex[2], 6), database.ErrInvalidPosition)
		assert.Equal(t, []uint{ex[1], ex[4], ex[2], ex[3], ex[0]}, order(t, repo, w.ID))
	})

	t.Run("missing association", func(t *testing.T) {
		assert.ErrorIs(t, repo.MoveExercise(ctx, w.ID, 999, 1), database.ErrNotFound)
	})
}

func TestRepository_UpdateExercise(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	ex := seedExercises(t, db, "A", "B", "C")

	w, err := repo.Create(ctx, newWorkout("W"), ex)
	require.NoError(t, err)

	err = repo.UpdateExercise(ctx, entities.WorkoutExercise{
		WorkoutID: w.ID, ExerciseID: ex[2], Repetitions: 6, Sets: 5, Load: 82.5, Notes: "slow eccentric", Position: 1,
	})
	require.NoError(t, err)

	got, err := repo.GetExercise(ctx, w.ID, ex[2])
	require.NoError(t, err)
	assert.Equal(t, 6, got.Repetitions)
	assert.Equal(t, 5, got.Sets)
	assert.Equal(t, 82.5, got.Load)
	assert.Equal(t, "slow eccentric", got.Notes)
	assert.Equal(t, []uint{ex[2], ex[0], ex[1]}, order(t, repo, w.ID))

	err = repo.UpdateExercise(ctx, entities.WorkoutExercise{WorkoutID: w.ID, ExerciseID: 999})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_DenseOrderingUnderRandomOperations(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	names := make([]string, 12)
	for i := range names {
		names[i] = fmt.Sprintf("Exercise %02d", i)
	}
	ex := seedExercises(t, db, names...)

	w, err := repo.Create(ctx, newWorkout("Random"), ex[:4])
	require.NoError(t, err)

	// model mirrors the expected order
	model := append([]uint(nil), ex[:4]...)
	pool := append([]uint(nil), ex[4:]...)

	rng := rand.New(rand.NewSource(42))
	for step := 0; step < 60; step++ {
		switch op := rng.Intn(3); {
		case op == 0 && len(pool) > 0:
			id := pool[0]
			pool = pool[1:]
			_, err := repo.AddExercise(ctx, entities.WorkoutExercise{WorkoutID: w.ID, ExerciseID: id})
			require.NoError(t, err)
			model = append(model, id)
		case op == 1 && len(model) > 1:
			i := rng.Intn(len(model))
			id := model[i]
			require.NoError(t, repo.RemoveExercise(ctx, w.ID, id))
			model = append(model[:i:i], model[i+1:]...)
			pool = append(pool, id)
		case len(model) > 0:
			i := rng.Intn(len(model))
			target := rng.Intn(len(model)) + 1
			id := model[i]
			require.NoError(t, repo.MoveExercise(ctx, w.ID, id, target))
			rest := append(model[:i:i], model[i+1:]...)
			model = append(rest[:target-1:target-1], append([]uint{id}, rest[target-1:]...)...)
		}
		require.Equal(t, model, order(t, repo, w.ID), "step %d", step)
	}
}

func TestRepository_Queries(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	person := dbtest.Person(1)
	require.NoError(t, db.Create(&person).Error)
	require.NoError(t, db.Create(&entities.Employee{PersonID: person.ID, Role: "Teacher", AdmissionDate: entities.Today()}).Error)
	require.NoError(t, db.Create(&entities.Teacher{EmployeeID: person.ID, License: "CREF-9"}).Error)

	studentPerson := dbtest.Person(2)
	require.NoError(t, db.Create(&studentPerson).Error)
	require.NoError(t, db.Create(&entities.Student{PersonID: studentPerson.ID, EnrollmentDate: entities.Today()}).Error)

	withTeacher := newWorkout("Coached")
	withTeacher.TeacherID = &person.ID
	coached, err := repo.Create(ctx, withTeacher, nil)
	require.NoError(t, err)
	require.NotNil(t, coached.Teacher)
	assert.Equal(t, person.Name, coached.Teacher.Name())

	solo, err := repo.Create(ctx, newWorkout("Solo"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.StudentWorkout{StudentID: studentPerson.ID, WorkoutID: solo.ID, StartDate: entities.Today()}).Error)

	byTeacher, err := repo.ListByTeacher(ctx, person.ID)
	require.NoError(t, err)
	require.Len(t, byTeacher, 1)
	assert.Equal(t, coached.ID, byTeacher[0].ID)

	byStudent, err := repo.ListByStudent(ctx, studentPerson.ID)
	require.NoError(t, err)
	require.Len(t, byStudent, 1)
	assert.Equal(t, solo.ID, byStudent[0].ID)

	byName, err := repo.FindByName(ctx, "Solo")
	require.NoError(t, err)
	assert.Equal(t, solo.ID, byName.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepository_Update(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	w, err := repo.Create(ctx, newWorkout("Old"), nil)
	require.NoError(t, err)

	changed := *w
	changed.Name = "New"
	changed.Notes = "deload week"
	require.NoError(t, repo.Update(ctx, changed))

	found, err := repo.FindByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", found.Name)
	assert.Equal(t, "deload week", found.Notes)

	changed.ID = 321
	assert.ErrorIs(t, repo.Update(ctx, changed), database.ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	ex := seedExercises(t, db, "A", "B")

	studentPerson := dbtest.Person(1)
	require.NoError(t, db.Create(&studentPerson).Error)
	require.NoError(t, db.Create(&entities.Student{PersonID: studentPerson.ID, EnrollmentDate: entities.Today()}).Error)

	w, err := repo.Create(ctx, newWorkout("W"), ex)
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.StudentWorkout{StudentID: studentPerson.ID, WorkoutID: w.ID, StartDate: entities.Today()}).Error)

	require.NoError(t, repo.Delete(ctx, w.ID))

	_, err = repo.FindByID(ctx, w.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	var links, assignments, exercises int64
	require.NoError(t, db.Model(&entities.WorkoutExercise{}).Count(&links).Error)
	require.NoError(t, db.Model(&entities.StudentWorkout{}).Count(&assignments).Error)
	require.NoError(t, db.Model(&entities.Exercise{}).Count(&exercises).Error)
	assert.Zero(t, links)
	assert.Zero(t, assignments)
	assert.Equal(t, int64(2), exercises, "exercises themselves are kept")

	assert.ErrorIs(t, repo.Delete(ctx, w.ID), database.ErrNotFound)
}

func TestResequence(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	ex := seedExercises(t, db, "A", "B", "C")

	w, err := repo.Create(ctx, newWorkout("W"), ex)
	require.NoError(t, err)

	require.NoError(t, db.Model(&entities.WorkoutExercise{}).Where("workout_id = ?", w.ID).
		Update("position", gorm.Expr("position * 10")).Error)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Resequence(tx, w.ID)
	}))
	assert.Equal(t, ex, order(t, repo, w.ID))

	count, err := repo.CountExercises(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
