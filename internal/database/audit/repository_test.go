package audit

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/database/dbtest"
	"github.com/mrlokans/gymflow/internal/entities"
)

func setupTestRepo(t *testing.T) *Repository {
	db := dbtest.New(t)
	return NewRepository(db.DB, zerolog.Nop())
}

func uintPtr(v uint) *uint {
	return &v
}

func TestRepository_LogEvent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	event := entities.AuditEvent{
		EventType:   entities.AuditEventCreate,
		Action:      "student_create",
		Description: "Created student Member 1",
		EntityType:  "student",
		EntityID:    uintPtr(1),
		Metadata:    datatypes.JSON(`{"plan_id":3}`),
		Status:      entities.AuditStatusSuccess,
	}

	saved, err := repo.LogEvent(ctx, event)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Zero(t, event.ID, "caller value is left untouched")

	found, err := repo.GetEventByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "student_create", found.Action)
	assert.JSONEq(t, `{"plan_id":3}`, string(found.Metadata))

	_, err = repo.GetEventByID(ctx, 404)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_GetEvents(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 15; i++ {
		_, err := repo.LogEvent(ctx, entities.AuditEvent{
			EventType: entities.AuditEventUpdate,
			Action:    "plan_update",
			Status:    entities.AuditStatusSuccess,
			CreatedAt: now.Add(time.Duration(-i) * time.Hour),
		})
		require.NoError(t, err)
	}

	t.Run("all events", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 15)
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, 5, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 5)

		events2, _, err := repo.GetEvents(ctx, 5, 5)
		require.NoError(t, err)
		assert.Len(t, events2, 5)
		assert.NotEqual(t, events[0].ID, events2[0].ID)
	})

	t.Run("order by created_at desc", func(t *testing.T) {
		events, _, err := repo.GetEvents(ctx, 10, 0)
		require.NoError(t, err)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i-1].CreatedAt.Before(events[i].CreatedAt))
		}
	})
}

func TestRepository_Filters(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for _, event := range []entities.AuditEvent{
		{EventType: entities.AuditEventCreate, EntityType: "student", EntityID: uintPtr(1), CorrelationID: "c-1"},
		{EventType: entities.AuditEventUpdate, EntityType: "student", EntityID: uintPtr(1)},
		{EventType: entities.AuditEventCreate, EntityType: "student", EntityID: uintPtr(2)},
		{EventType: entities.AuditEventGenerate, EntityType: "fee", EntityID: uintPtr(7), CorrelationID: "c-1"},
	} {
		_, err := repo.LogEvent(ctx, event)
		require.NoError(t, err)
	}

	creates, total, err := repo.GetEventsByType(ctx, entities.AuditEventCreate, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, creates, 2)

	history, total, err := repo.GetEventsByEntity(ctx, "student", 1, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, history, 2)

	students, total, err := repo.GetEventsByEntity(ctx, "student", 0, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, students, 3)

	correlated, err := repo.GetEventsByCorrelation(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, correlated, 2)
	assert.Equal(t, "student", correlated[0].EntityType)
	assert.Equal(t, "fee", correlated[1].EntityType)
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, age := range []time.Duration{0, 24 * time.Hour, 100 * 24 * time.Hour, 200 * 24 * time.Hour} {
		_, err := repo.LogEvent(ctx, entities.AuditEvent{EventType: entities.AuditEventDelete, CreatedAt: now.Add(-age)})
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteOldEvents(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, total, err := repo.GetEvents(ctx, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
