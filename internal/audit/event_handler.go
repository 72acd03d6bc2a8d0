package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal/core/events"
)

// Recorder is the subset of Service the event handler writes through.
type Recorder interface {
	Record(ctx context.Context, e Entry) (*Entry, error)
}

type EventHandler struct {
	recorder Recorder
	logger   *slog.Logger
}

func NewEventHandler(recorder Recorder, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		recorder: recorder,
		logger:   logger,
	}
}

func (h *EventHandler) HandleIdentityCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.IdentityCreatedEvent)
	if !ok {
		return fmt.Errorf("expected IdentityCreatedEvent, got %T", event)
	}
	_, err := h.recorder.Record(ctx, Entry{
		Action:    ActionIdentityCreated,
		UserID:    e.UserID,
		Details:   fmt.Sprintf("identity created with role %s", e.Role),
		IPAddress: e.ClientIP,
		Timestamp: e.OccurredAt(),
	})
	return err
}

func (h *EventHandler) HandleIdentityPromoted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.IdentityPromotedEvent)
	if !ok {
		return fmt.Errorf("expected IdentityPromotedEvent, got %T", event)
	}
	_, err := h.recorder.Record(ctx, Entry{
		Action:    ActionIdentityPromoted,
		UserID:    e.UserID,
		Details:   fmt.Sprintf("role changed from %s to %s", e.FromRole, e.ToRole),
		IPAddress: e.ClientIP,
		Timestamp: e.OccurredAt(),
	})
	return err
}

func (h *EventHandler) HandleLeaveCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveCreatedEvent)
	if !ok {
		return fmt.Errorf("expected LeaveCreatedEvent, got %T", event)
	}
	_, err := h.recorder.Record(ctx, Entry{
		Action:    ActionLeaveCreated,
		UserID:    e.OwnerID,
		LeaveID:   e.LeaveID,
		Details:   fmt.Sprintf("%s leave for %d day(s)", e.LeaveType, e.TotalDays),
		IPAddress: e.ClientIP,
		Timestamp: e.OccurredAt(),
	})
	return err
}

func (h *EventHandler) HandleLeaveDecided(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveDecidedEvent)
	if !ok {
		return fmt.Errorf("expected LeaveDecidedEvent, got %T", event)
	}
	_, err := h.recorder.Record(ctx, Entry{
		Action:    ActionLeaveDecided,
		UserID:    e.ReviewerID,
		LeaveID:   e.LeaveID,
		Details:   fmt.Sprintf("leave %s", e.Status),
		IPAddress: e.ClientIP,
		Timestamp: e.OccurredAt(),
	})
	return err
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeIdentityCreated, h.HandleIdentityCreated)
	eventBus.Subscribe(events.EventTypeIdentityPromoted, h.HandleIdentityPromoted)
	eventBus.Subscribe(events.EventTypeLeaveCreated, h.HandleLeaveCreated)
	eventBus.Subscribe(events.EventTypeLeaveDecided, h.HandleLeaveDecided)

	h.logger.Info("audit event handlers registered",
		"handlers", []string{
			events.EventTypeIdentityCreated,
			events.EventTypeIdentityPromoted,
			events.EventTypeLeaveCreated,
			events.EventTypeLeaveDecided,
		})
}
