package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"budgeteer/internal/events"
	"budgeteer/internal/logger"
	"budgeteer/internal/models"
)

// auditService handles audit log recording.
type auditService struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewAuditService creates a new AuditServicer. A nil publisher disables event publishing.
func NewAuditService(db *gorm.DB, publisher events.Publisher) AuditServicer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &auditService{db: db, publisher: publisher}
}

// Log records an audit event and forwards it to the publisher. Errors are logged
// but never propagate to avoid disrupting the main operation.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
		return
	}

	event := events.Event{
		ID:           entry.ID,
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OccurredAt:   entry.CreatedAt,
	}
	if changesJSON != "" {
		event.Changes = json.RawMessage(changesJSON)
	}
	if err := s.publisher.Publish(context.Background(), event); err != nil {
		logger.Get().Warnw("failed to publish audit event",
			"error", err,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
