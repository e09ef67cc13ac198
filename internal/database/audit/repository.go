package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
)

const defaultPageSize = 50

type Repository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewRepository(db *gorm.DB, logger zerolog.Logger) *Repository {
	return &Repository{db: db, logger: logger.With().Str("repository", "audit").Logger()}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event entities.AuditEvent) (*entities.AuditEvent, error) {
	event.ID = 0
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, database.Report(r.logger, "log audit event", err)
	}
	return &event, nil
}

// GetEventByID retrieves a single audit event by ID.
func (r *Repository) GetEventByID(ctx context.Context, id uint) (*entities.AuditEvent, error) {
	var event entities.AuditEvent
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, database.Report(r.logger, "get audit event", err)
	}
	return &event, nil
}

// GetEvents retrieves paginated audit events, ordered by most recent first.
func (r *Repository) GetEvents(ctx context.Context, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return r.page("get audit events", r.db.WithContext(ctx).Model(&entities.AuditEvent{}), limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (r *Repository) GetEventsByType(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	q := r.db.WithContext(ctx).Model(&entities.AuditEvent{}).Where("event_type = ?", eventType)
	return r.page("get audit events by type", q, limit, offset)
}

// GetEventsByEntity retrieves the history of one entity. A zero id matches
// every entity of the type.
func (r *Repository) GetEventsByEntity(ctx context.Context, entityType string, entityID uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	q := r.db.WithContext(ctx).Model(&entities.AuditEvent{}).Where("entity_type = ?", entityType)
	if entityID > 0 {
		q = q.Where("entity_id = ?", entityID)
	}
	return r.page("get audit events by entity", q, limit, offset)
}

// GetEventsByCorrelation retrieves the events written by one operation.
func (r *Repository) GetEventsByCorrelation(ctx context.Context, correlationID string) ([]entities.AuditEvent, error) {
	var events []entities.AuditEvent
	err := r.db.WithContext(ctx).
		Where("correlation_id = ?", correlationID).
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, database.Report(r.logger, "get audit events by correlation", err)
	}
	return events, nil
}

func (r *Repository) page(op string, query *gorm.DB, limit, offset int) ([]entities.AuditEvent, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, database.Report(r.logger, op, err)
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var events []entities.AuditEvent
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error; err != nil {
		return nil, 0, database.Report(r.logger, op, err)
	}
	return events, total, nil
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	if result.Error != nil {
		return 0, database.Report(r.logger, "delete old audit events", result.Error)
	}
	if result.RowsAffected > 0 {
		r.logger.Info().Int64("count", result.RowsAffected).Time("older_than", olderThan).Msg("audit events pruned")
	}
	return result.RowsAffected, nil
}
