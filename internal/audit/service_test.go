package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	auditRepo "github.com/mrlokans/gymflow/internal/database/audit"
	"github.com/mrlokans/gymflow/internal/database/dbtest"
	"github.com/mrlokans/gymflow/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db := dbtest.New(t)
	repo := auditRepo.NewRepository(db.DB, zerolog.Nop())
	return NewService(repo, zerolog.Nop(), true), db.DB
}

func TestService_LogCreate(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc.LogCreate(ctx, "plan", 3, "Annual", nil)

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "plan_create").First(&event).Error)
		assert.Equal(t, entities.AuditEventCreate, event.EventType)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, "Created plan: Annual", event.Description)
		require.NotNil(t, event.EntityID)
		assert.Equal(t, uint(3), *event.EntityID)
	})

	t.Run("failure", func(t *testing.T) {
		svc.LogCreate(ctx, "student", 0, "Member 1", errors.New("conflict: national id already registered"))

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "student_create").First(&event).Error)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Contains(t, event.ErrorMsg, "national id")
		assert.Nil(t, event.EntityID)
	})
}

func TestService_LogPayment(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogPayment(context.Background(), 9, entities.Date(2026, time.October, 15), 99.9, nil)

	var event entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "fee_payment").First(&event).Error)
	assert.Equal(t, entities.AuditEventPayment, event.EventType)
	assert.JSONEq(t, `{"amount":99.9,"payment_date":"2026-10-15"}`, string(event.Metadata))
}

func TestService_LogGenerate(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	fees := []entities.MonthlyFee{
		{ID: 1, DueDate: entities.Date(2026, time.November, 1), Amount: 100},
		{ID: 2, DueDate: entities.Date(2026, time.December, 1), Amount: 100},
	}
	correlationID := svc.LogGenerate(ctx, 5, 2, fees, nil)
	require.NotEmpty(t, correlationID)

	events, err := svc.Correlated(ctx, correlationID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "student", events[0].EntityType)
	assert.Equal(t, "fee_create", events[1].Action)
	assert.Equal(t, "Fee due 2026-12-01", events[2].Description)

	history, total, err := svc.History(ctx, "fee", 2, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, correlationID, history[0].CorrelationID)
}

func TestService_Disabled(t *testing.T) {
	db := dbtest.New(t)
	svc := NewService(auditRepo.NewRepository(db.DB, zerolog.Nop()), zerolog.Nop(), false)
	ctx := context.Background()

	svc.LogDelete(ctx, "plan", 1, nil)

	_, total, err := svc.GetEvents(ctx, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	var nilService *Service
	assert.NotPanics(t, func() { nilService.LogDelete(ctx, "plan", 1, nil) })
}

func TestService_StoreFailureDoesNotPanic(t *testing.T) {
	svc, db := setupTestService(t)
	require.NoError(t, db.Migrator().DropTable(&entities.AuditEvent{}))

	assert.NotPanics(t, func() {
		svc.LogUpdate(context.Background(), "plan", 1, "Annual", nil)
	})
}

func TestService_GetEventsByType(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	svc.LogReorder(ctx, 4, 8, "move", 2, nil)
	svc.LogReorder(ctx, 4, 9, "remove", 0, nil)
	svc.LogDelete(ctx, "exercise", 8, nil)

	events, total, err := svc.GetEventsByType(ctx, entities.AuditEventReorder, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, events, 2)
}

func TestService_Prune(t *testing.T) {
	svc, db := setupTestService(t)
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	require.NoError(t, db.Create(&entities.AuditEvent{Action: "old", CreatedAt: now.AddDate(0, 0, -120)}).Error)
	require.NoError(t, db.Create(&entities.AuditEvent{Action: "new", CreatedAt: now.AddDate(0, 0, -10)}).Error)

	deleted, err := svc.Prune(context.Background(), 90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []entities.AuditEvent
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Action)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a very long string", 10, "this is..."},
		{"", 5, ""},
	}

	for _, tc := range tests {
		result := truncate(tc.input, tc.maxLen)
		assert.Equal(t, tc.expected, result)
	}
}
