package plans

import (
	"context"
	"testing"

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

func TestRepository_CreateAndFind(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, entities.Plan{Name: "Annual", Description: "Best value", DurationMonths: 12, MonthlyPrice: 99.90})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *found)
	assert.Equal(t, 1198.80, found.TotalValue())

	byName, err := repo.FindByName(ctx, "Annual")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestRepository_Create_DuplicateName(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, entities.Plan{Name: "Annual", DurationMonths: 12, MonthlyPrice: 99.90})
	require.NoError(t, err)

	_, err = repo.Create(ctx, entities.Plan{Name: "Annual", DurationMonths: 6, MonthlyPrice: 110})
	assert.ErrorIs(t, err, database.ErrConflict)

	exists, err := repo.NameExists(ctx, "Annual", 0)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRepository_List(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Monthly", "Quarterly", "Annual"} {
		_, err := repo.Create(ctx, entities.Plan{Name: name, DurationMonths: 1, MonthlyPrice: 100})
		require.NoError(t, err)
	}

	plans, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "Monthly", plans[0].Name)
	assert.Equal(t, "Annual", plans[2].Name)
}

func TestRepository_Update(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, entities.Plan{Name: "Monthly", Description: "x", DurationMonths: 1, MonthlyPrice: 100})
	require.NoError(t, err)

	changed := *created
	changed.MonthlyPrice = 115.5
	changed.Description = ""
	require.NoError(t, repo.Update(ctx, changed))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 115.5, found.MonthlyPrice)
	assert.Empty(t, found.Description)

	changed.ID = 999
	assert.ErrorIs(t, repo.Update(ctx, changed), database.ErrNotFound)
}

func TestRepository_Delete_DetachesStudentsAndFees(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	plan, err := repo.Create(ctx, entities.Plan{Name: "Monthly", DurationMonths: 1, MonthlyPrice: 100})
	require.NoError(t, err)

	person := dbtest.Person(1)
	require.NoError(t, db.Create(&person).Error)
	require.NoError(t, db.Create(&entities.Student{PersonID: person.ID, EnrollmentDate: entities.Today(), PlanID: &plan.ID}).Error)
	fee := entities.MonthlyFee{PlanID: &plan.ID, DueDate: entities.Today(), Amount: 100, Status: entities.FeeStatusPending}
	require.NoError(t, db.Create(&fee).Error)

	require.NoError(t, repo.Delete(ctx, plan.ID))

	_, err = repo.FindByID(ctx, plan.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	var student entities.Student
	require.NoError(t, db.Where("person_id = ?", person.ID).First(&student).Error)
	assert.Nil(t, student.PlanID)

	var keptFee entities.MonthlyFee
	require.NoError(t, db.First(&keptFee, fee.ID).Error)
	assert.Nil(t, keptFee.PlanID)

	assert.ErrorIs(t, repo.Delete(ctx, plan.ID), database.ErrNotFound)
}
