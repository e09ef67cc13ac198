// Package audit records what the services changed in the database.
//
// Events are written synchronously after the operation they describe. A
// failure to store an event is logged and never fails the operation itself.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/mrlokans/gymflow/internal/database/audit"
	"github.com/mrlokans/gymflow/internal/entities"
)

const maxTextLen = 500

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	logger  zerolog.Logger
	enabled bool
	now     func() time.Time
}

// NewService creates a new audit service. A disabled service records nothing
// but still answers queries.
func NewService(repo *audit.Repository, logger zerolog.Logger, enabled bool) *Service {
	return &Service{
		repo:    repo,
		logger:  logger.With().Str("component", "audit").Logger(),
		enabled: enabled,
		now:     time.Now,
	}
}

// Entry describes one audited operation.
type Entry struct {
	Type          entities.AuditEventType
	Action        string
	Description   string
	EntityType    string
	EntityID      uint
	CorrelationID string
	Metadata      map[string]any
	Err           error
}

// NewCorrelationID returns an id that ties together the events of one
// multi-row operation.
func NewCorrelationID() string {
	return uuid.NewString()
}

// Record stores an entry. It is safe to call on a nil Service.
func (s *Service) Record(ctx context.Context, e Entry) {
	if s == nil || !s.enabled {
		return
	}

	event := entities.AuditEvent{
		EventType:     e.Type,
		Action:        e.Action,
		Description:   truncate(e.Description, maxTextLen),
		EntityType:    e.EntityType,
		CorrelationID: e.CorrelationID,
		Status:        entities.AuditStatusSuccess,
		CreatedAt:     s.now().UTC(),
	}
	if e.EntityID != 0 {
		id := e.EntityID
		event.EntityID = &id
	}
	if len(e.Metadata) > 0 {
		if md, err := json.Marshal(e.Metadata); err == nil {
			event.Metadata = datatypes.JSON(md)
		}
	}
	if e.Err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(e.Err.Error(), maxTextLen)
	}

	if _, err := s.repo.LogEvent(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("action", e.Action).Msg("failed to record audit event")
	}
}

// LogCreate records the creation of an entity.
func (s *Service) LogCreate(ctx context.Context, entityType string, id uint, name string, err error) {
	s.Record(ctx, Entry{
		Type:        entities.AuditEventCreate,
		Action:      entityType + "_create",
		Description: fmt.Sprintf("Created %s: %s", entityType, name),
		EntityType:  entityType,
		EntityID:    id,
		Err:         err,
	})
}

// LogUpdate records a change to an entity.
func (s *Service) LogUpdate(ctx context.Context, entityType string, id uint, name string, err error) {
	s.Record(ctx, Entry{
		Type:        entities.AuditEventUpdate,
		Action:      entityType + "_update",
		Description: fmt.Sprintf("Updated %s: %s", entityType, name),
		EntityType:  entityType,
		EntityID:    id,
		Err:         err,
	})
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(ctx context.Context, entityType string, id uint, err error) {
	s.Record(ctx, Entry{
		Type:        entities.AuditEventDelete,
		Action:      entityType + "_delete",
		Description: fmt.Sprintf("Deleted %s %d", entityType, id),
		EntityType:  entityType,
		EntityID:    id,
		Err:         err,
	})
}

// LogPayment records a fee payment.
func (s *Service) LogPayment(ctx context.Context, feeID uint, date time.Time, amount float64, err error) {
	s.Record(ctx, Entry{
		Type:        entities.AuditEventPayment,
		Action:      "fee_payment",
		Description: fmt.Sprintf("Registered payment of %.2f for fee %d", amount, feeID),
		EntityType:  "fee",
		EntityID:    feeID,
		Metadata: map[string]any{
			"amount":       amount,
			"payment_date": entities.FormatDate(date),
		},
		Err: err,
	})
}

// LogGenerate records a batch of generated fees, one event per fee plus a
// summary event for the student, all sharing a correlation id.
func (s *Service) LogGenerate(ctx context.Context, studentID, planID uint, fees []entities.MonthlyFee, err error) string {
	correlationID := NewCorrelationID()
	s.Record(ctx, Entry{
		Type:          entities.AuditEventGenerate,
		Action:        "fee_generate",
		Description:   fmt.Sprintf("Generated %d monthly fees for student %d", len(fees), studentID),
		EntityType:    "student",
		EntityID:      studentID,
		CorrelationID: correlationID,
		Metadata: map[string]any{
			"plan_id": planID,
			"months":  len(fees),
		},
		Err: err,
	})
	for _, fee := range fees {
		s.Record(ctx, Entry{
			Type:          entities.AuditEventGenerate,
			Action:        "fee_create",
			Description:   fmt.Sprintf("Fee due %s", entities.FormatDate(fee.DueDate)),
			EntityType:    "fee",
			EntityID:      fee.ID,
			CorrelationID: correlationID,
			Metadata:      map[string]any{"amount": fee.Amount},
		})
	}
	return correlationID
}

// LogReorder records a change to a workout's exercise list.
func (s *Service) LogReorder(ctx context.Context, workoutID, exerciseID uint, action string, position int, err error) {
	s.Record(ctx, Entry{
		Type:        entities.AuditEventReorder,
		Action:      "workout_" + action,
		Description: fmt.Sprintf("Workout %d: %s exercise %d", workoutID, action, exerciseID),
		EntityType:  "workout",
		EntityID:    workoutID,
		Metadata: map[string]any{
			"exercise_id": exerciseID,
			"position":    position,
		},
		Err: err,
	})
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(ctx, eventType, limit, offset)
}

// History retrieves the events of one entity.
func (s *Service) History(ctx context.Context, entityType string, id uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByEntity(ctx, entityType, id, limit, offset)
}

func (s *Service) Correlated(ctx context.Context, correlationID string) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsByCorrelation(ctx, correlationID)
}

// Prune removes events older than retentionDays.
func (s *Service) Prune(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -retentionDays)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
