package evaluations

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
	"github.com/mrlokans/gymflow/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, uint) {
	db := dbtest.New(t)
	person := dbtest.Person(1)
	require.NoError(t, db.DB.Create(&person).Error)
	require.NoError(t, db.DB.Create(&entities.Student{PersonID: person.ID, EnrollmentDate: entities.Date(2026, time.January, 5)}).Error)
	return NewRepository(db.DB, zerolog.Nop()), db.DB, person.ID
}

func ptr(v float64) *float64 {
	return &v
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo, _, studentID := setupTestDB(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, entities.Evaluation{
		StudentID: studentID,
		Date:      entities.Date(2026, time.March, 1),
		Weight:    ptr(70),
		Height:    ptr(175),
		Notes:     "baseline",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", entities.FormatDate(found.Date))
	assert.Nil(t, found.TeacherID)

	bmi, ok := found.BMI()
	assert.True(t, ok)
	assert.InDelta(t, 22.86, bmi, 0.005)
	assert.Equal(t, entities.BMINormal, found.BMICategory())
}

func TestRepository_Create_UnknownStudent(t *testing.T) {
	repo, _, _ := setupTestDB(t)

	_, err := repo.Create(context.Background(), entities.Evaluation{StudentID: 999, Date: entities.Today()})
	assert.ErrorIs(t, err, database.ErrMissingReference)
}

func TestRepository_OptionalMeasurements(t *testing.T) {
	repo, _, studentID := setupTestDB(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, entities.Evaluation{StudentID: studentID, Date: entities.Today(), Weight: ptr(80)})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Weight)
	assert.Nil(t, found.Height)
	assert.Equal(t, entities.BMINotCalculated, found.BMICategory())
}

func TestRepository_LatestByStudent(t *testing.T) {
	repo, _, studentID := setupTestDB(t)
	ctx := context.Background()

	for month := time.January; month <= time.April; month++ {
		_, err := repo.Create(ctx, entities.Evaluation{StudentID: studentID, Date: entities.Date(2026, month, 10), Weight: ptr(80 - float64(month))})
		require.NoError(t, err)
	}

	all, err := repo.ListByStudent(ctx, studentID)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, time.April, all[0].Date.Month())
	assert.Equal(t, time.January, all[3].Date.Month())

	latest, err := repo.LatestByStudent(ctx, studentID, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)

	cmp := entities.CompareEvaluations(latest[0], latest[1])
	assert.True(t, cmp.Weight.Available)
	assert.Equal(t, "decrease of 1.00", cmp.Weight.String())

	none, err := repo.ListByStudent(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	repo, _, studentID := setupTestDB(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, entities.Evaluation{StudentID: studentID, Date: entities.Today(), Weight: ptr(80), Height: ptr(1.80)})
	require.NoError(t, err)

	changed := *created
	changed.Weight = ptr(78.5)
	changed.Height = nil
	changed.Notes = "recheck"
	require.NoError(t, repo.Update(ctx, changed))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Weight)
	assert.Equal(t, 78.5, *found.Weight)
	assert.Nil(t, found.Height)
	assert.Equal(t, "recheck", found.Notes)

	changed.ID = 999
	assert.ErrorIs(t, repo.Update(ctx, changed), database.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), database.ErrNotFound)
}
