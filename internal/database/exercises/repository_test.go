package exercises

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/database/dbtest"
	"github.com/mrlokans/gymflow/internal/database/workouts"
	"github.com/mrlokans/gymflow/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	db := dbtest.New(t)
	return NewRepository(db.DB, zerolog.Nop()), db.DB
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, entities.Exercise{Name: "Squat", Description: "Back squat", MuscleGroup: "Legs"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *found)

	byName, err := repo.FindByName(ctx, "Squat")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = repo.FindByID(ctx, 404)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_Create_DuplicateName(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, entities.Exercise{Name: "Squat"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, entities.Exercise{Name: "Squat", MuscleGroup: "Legs"})
	assert.ErrorIs(t, err, database.ErrConflict)

	exists, err := repo.NameExists(ctx, "Squat", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.NameExists(ctx, "Squat", first.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_ListByMuscleGroup(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	for _, e := range []entities.Exercise{
		{Name: "Squat", MuscleGroup: "Legs"},
		{Name: "Bench press", MuscleGroup: "Chest"},
		{Name: "Lunge", MuscleGroup: "Legs"},
	} {
		_, err := repo.Create(ctx, e)
		require.NoError(t, err)
	}

	legs, err := repo.ListByMuscleGroup(ctx, "Legs")
	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, "Lunge", legs[0].Name)
	assert.Equal(t, "Squat", legs[1].Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepository_Update(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, entities.Exercise{Name: "Row", MuscleGroup: "Back"})
	require.NoError(t, err)

	changed := *created
	changed.Name = "Barbell row"
	changed.Description = "Bent over"
	require.NoError(t, repo.Update(ctx, changed))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Barbell row", found.Name)
	assert.Equal(t, "Bent over", found.Description)

	changed.ID = 999
	assert.ErrorIs(t, repo.Update(ctx, changed), database.ErrNotFound)
}

func TestRepository_Delete_ResequencesWorkouts(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	workoutRepo := workouts.NewRepository(db, zerolog.Nop())

	var ids []uint
	for _, name := range []string{"A", "B", "C"} {
		e, err := repo.Create(ctx, entities.Exercise{Name: name})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	first, err := workoutRepo.Create(ctx, entities.Workout{Name: "One", CreationDate: entities.Date(2026, time.October, 1)}, ids)
	require.NoError(t, err)
	second, err := workoutRepo.Create(ctx, entities.Workout{Name: "Two", CreationDate: entities.Date(2026, time.October, 1)}, []uint{ids[1], ids[2]})
	require.NoError(t, err)

	ordered, err := repo.ListByWorkout(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, "A", ordered[0].Name)

	require.NoError(t, repo.Delete(ctx, ids[1]))

	for workoutID, want := range map[uint][]uint{
		first.ID:  {ids[0], ids[2]},
		second.ID: {ids[2]},
	} {
		rows, err := workoutRepo.ListExercises(ctx, workoutID)
		require.NoError(t, err)
		require.Len(t, rows, len(want))
		for i, row := range rows {
			assert.Equal(t, i+1, row.Position)
			assert.Equal(t, want[i], row.ExerciseID)
		}
	}

	assert.ErrorIs(t, repo.Delete(ctx, ids[1]), database.ErrNotFound)
}
