package assignments

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

var today = entities.Date(2026, time.October, 15)

type fixture struct {
	repo     *Repository
	db       *gorm.DB
	students []uint
	workouts []uint
}

func setup(t *testing.T) fixture {
	db := dbtest.New(t)
	f := fixture{repo: NewRepository(db.DB, zerolog.Nop()), db: db.DB}

	for i := 1; i <= 2; i++ {
		person := dbtest.Person(i)
		require.NoError(t, db.DB.Create(&person).Error)
		require.NoError(t, db.DB.Create(&entities.Student{PersonID: person.ID, EnrollmentDate: today}).Error)
		f.students = append(f.students, person.ID)
	}
	for _, name := range []string{"Strength", "Cardio", "Mobility"} {
		w := entities.Workout{Name: name, CreationDate: today}
		require.NoError(t, db.DB.Create(&w).Error)
		f.workouts = append(f.workouts, w.ID)
	}
	return f
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestRepository_CreateAndFind(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.repo.Create(ctx, entities.StudentWorkout{
		StudentID: f.students[0],
		WorkoutID: f.workouts[0],
		StartDate: today,
		EndDate:   datePtr(today.AddDate(0, 1, 0)),
		Notes:     "first block",
	})
	require.NoError(t, err)
	assert.Equal(t, "Strength", created.Workout.Name)
	assert.Equal(t, "2026-11-15", entities.FormatOptionalDate(created.EndDate))

	found, err := f.repo.Find(ctx, f.students[0], f.workouts[0])
	require.NoError(t, err)
	assert.Equal(t, "first block", found.Notes)
	assert.True(t, found.IsActive(today))

	_, err = f.repo.Find(ctx, f.students[1], f.workouts[0])
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_Create_Errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sw := entities.StudentWorkout{StudentID: f.students[0], WorkoutID: f.workouts[0], StartDate: today}
	_, err := f.repo.Create(ctx, sw)
	require.NoError(t, err)

	_, err = f.repo.Create(ctx, sw)
	assert.ErrorIs(t, err, database.ErrConflict)

	sw.WorkoutID = 999
	_, err = f.repo.Create(ctx, sw)
	assert.ErrorIs(t, err, database.ErrMissingReference)
}

func TestRepository_ExpiredAssignment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.repo.Create(ctx, entities.StudentWorkout{
		StudentID: f.students[0],
		WorkoutID: f.workouts[0],
		StartDate: today.AddDate(0, -2, 0),
		EndDate:   datePtr(today.AddDate(0, 0, -1)),
	})
	require.NoError(t, err)

	found, err := f.repo.Find(ctx, f.students[0], f.workouts[0])
	require.NoError(t, err)
	assert.False(t, found.IsActive(today))
	days, ok := found.DaysToExpire(today)
	assert.True(t, ok)
	assert.Equal(t, -1, days)

	active, err := f.repo.ListActiveByStudent(ctx, f.students[0], today)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRepository_Lists(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, sw := range []entities.StudentWorkout{
		{StudentID: f.students[0], WorkoutID: f.workouts[0], StartDate: today.AddDate(0, -1, 0)},
		{StudentID: f.students[0], WorkoutID: f.workouts[1], StartDate: today.AddDate(0, 0, -3), EndDate: datePtr(today)},
		{StudentID: f.students[0], WorkoutID: f.workouts[2], StartDate: today.AddDate(0, 0, 5)},
		{StudentID: f.students[1], WorkoutID: f.workouts[0], StartDate: today},
	} {
		_, err := f.repo.Create(ctx, sw)
		require.NoError(t, err)
	}

	byStudent, err := f.repo.ListByStudent(ctx, f.students[0])
	require.NoError(t, err)
	require.Len(t, byStudent, 3)
	assert.Equal(t, f.workouts[2], byStudent[0].WorkoutID, "newest start date first")
	assert.Equal(t, f.workouts[1], byStudent[1].WorkoutID)
	assert.Equal(t, f.workouts[0], byStudent[2].WorkoutID)

	active, err := f.repo.ListActiveByStudent(ctx, f.students[0], today)
	require.NoError(t, err)
	require.Len(t, active, 2, "ends today counts, future start does not")
	assert.Equal(t, f.workouts[1], active[0].WorkoutID)
	assert.Equal(t, f.workouts[0], active[1].WorkoutID)

	byWorkout, err := f.repo.ListByWorkout(ctx, f.workouts[0])
	require.NoError(t, err)
	require.Len(t, byWorkout, 2)
	assert.Equal(t, f.students[1], byWorkout[0].StudentID)
	assert.Equal(t, "Member 2", byWorkout[0].Student.Person.Name)

	all, err := f.repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRepository_EndAndRenew(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.repo.Create(ctx, entities.StudentWorkout{StudentID: f.students[0], WorkoutID: f.workouts[0], StartDate: today.AddDate(0, 0, -10)})
	require.NoError(t, err)

	end, err := f.repo.Renew(ctx, f.students[0], f.workouts[0], 30, today)
	require.NoError(t, err)
	assert.Equal(t, today.AddDate(0, 0, 30), end, "open-ended assignments renew from today")

	end, err = f.repo.Renew(ctx, f.students[0], f.workouts[0], 10, today)
	require.NoError(t, err)
	assert.Equal(t, today.AddDate(0, 0, 40), end, "renewal extends the current end date")

	require.NoError(t, f.repo.End(ctx, f.students[0], f.workouts[0], today))
	found, err := f.repo.Find(ctx, f.students[0], f.workouts[0])
	require.NoError(t, err)
	require.NotNil(t, found.EndDate)
	assert.Equal(t, today, *found.EndDate)

	_, err = f.repo.Renew(ctx, f.students[1], f.workouts[0], 10, today)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.ErrorIs(t, f.repo.End(ctx, f.students[1], f.workouts[0], today), database.ErrNotFound)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.repo.Create(ctx, entities.StudentWorkout{StudentID: f.students[0], WorkoutID: f.workouts[0], StartDate: today})
	require.NoError(t, err)

	changed := *created
	changed.Notes = "focus on form"
	changed.EndDate = datePtr(today.AddDate(0, 0, 7))
	require.NoError(t, f.repo.Update(ctx, changed))

	found, err := f.repo.Find(ctx, f.students[0], f.workouts[0])
	require.NoError(t, err)
	assert.Equal(t, "focus on form", found.Notes)
	days, ok := found.DaysToExpire(today)
	assert.True(t, ok)
	assert.Equal(t, 7, days)

	changed.WorkoutID = f.workouts[1]
	assert.ErrorIs(t, f.repo.Update(ctx, changed), database.ErrNotFound)

	require.NoError(t, f.repo.Delete(ctx, f.students[0], f.workouts[0]))
	assert.ErrorIs(t, f.repo.Delete(ctx, f.students[0], f.workouts[0]), database.ErrNotFound)
}
