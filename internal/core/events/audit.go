package events

import (
	"context"
	"log/slog"
)

// Audit event types published by the services.
const (
	EventLogin           = "auth.login"
	EventUserCreated     = "user.created"
	EventUserUpdated     = "user.updated"
	EventUserDeleted     = "user.deleted"
	EventLinksReordered  = "links.reordered"
	EventLinkCreated     = "link.created"
	EventLinkDeleted     = "link.deleted"
	EventDeptCreated     = "department.created"
	EventDeptDeleted     = "department.deleted"
)

// RegisterAuditLogger subscribes a logging handler for every audit event
// type, producing a structured audit trail in the service log.
func RegisterAuditLogger(bus *EventBus, logger *slog.Logger) {
	types := []string{
		EventLogin,
		EventUserCreated,
		EventUserUpdated,
		EventUserDeleted,
		EventLinksReordered,
		EventLinkCreated,
		EventLinkDeleted,
		EventDeptCreated,
		EventDeptDeleted,
	}
	for _, eventType := range types {
		bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
			logger.Info("audit event",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"occurred_at", event.OccurredAt(),
				"payload", event.Payload())
			return nil
		})
	}
}
