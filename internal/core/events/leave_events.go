package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveCreated = "leave.created"
	EventTypeLeaveDecided = "leave.decided"
)

type LeaveCreatedEvent struct {
	BaseEvent
	LeaveID   string `json:"leave_id"`
	OwnerID   string `json:"owner_id"`
	LeaveType string `json:"leave_type"`
	TotalDays int    `json:"total_days"`
	ClientIP  string `json:"client_ip"`
}

func NewLeaveCreatedEvent(leaveID, ownerID, leaveType string, totalDays int, clientIP string) *LeaveCreatedEvent {
	return &LeaveCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeLeaveCreated,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"leave_id":   leaveID,
				"owner_id":   ownerID,
				"leave_type": leaveType,
				"total_days": totalDays,
			},
		},
		LeaveID:   leaveID,
		OwnerID:   ownerID,
		LeaveType: leaveType,
		TotalDays: totalDays,
		ClientIP:  clientIP,
	}
}

type LeaveDecidedEvent struct {
	BaseEvent
	LeaveID    string `json:"leave_id"`
	ReviewerID string `json:"reviewer_id"`
	Status     string `json:"status"`
	ClientIP   string `json:"client_ip"`
}

func NewLeaveDecidedEvent(leaveID, reviewerID, status, clientIP string) *LeaveDecidedEvent {
	return &LeaveDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeLeaveDecided,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"leave_id":    leaveID,
				"reviewer_id": reviewerID,
				"status":      status,
			},
		},
		LeaveID:    leaveID,
		ReviewerID: reviewerID,
		Status:     status,
		ClientIP:   clientIP,
	}
}
