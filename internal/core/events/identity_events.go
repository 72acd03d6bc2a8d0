package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeIdentityCreated  = "identity.created"
	EventTypeIdentityPromoted = "identity.promoted"
)

type IdentityCreatedEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	ClientIP string `json:"client_ip"`
}

func NewIdentityCreatedEvent(userID, role, clientIP string) *IdentityCreatedEvent {
	return &IdentityCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeIdentityCreated,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"user_id": userID,
				"role":    role,
			},
		},
		UserID:   userID,
		Role:     role,
		ClientIP: clientIP,
	}
}

type IdentityPromotedEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	FromRole string `json:"from_role"`
	ToRole   string `json:"to_role"`
	ClientIP string `json:"client_ip"`
}

func NewIdentityPromotedEvent(userID, fromRole, toRole, clientIP string) *IdentityPromotedEvent {
	return &IdentityPromotedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeIdentityPromoted,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"user_id":   userID,
				"from_role": fromRole,
				"to_role":   toRole,
			},
		},
		UserID:   userID,
		FromRole: fromRole,
		ToRole:   toRole,
		ClientIP: clientIP,
	}
}
