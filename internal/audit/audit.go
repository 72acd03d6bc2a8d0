package audit

import (
	"time"

	auditDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/audit"
)

type Action string

const (
	ActionIdentityCreated  Action = "IDENTITY_CREATED"
	ActionIdentityPromoted Action = "IDENTITY_PROMOTED"
	ActionLeaveCreated     Action = "LEAVE_CREATED"
	ActionLeaveDecided     Action = "LEAVE_DECIDED"
)

// Entry is one append-only audit record. LeaveID is empty for identity actions.
type Entry struct {
	ID        string
	Action    Action
	UserID    string
	LeaveID   string
	Details   string
	IPAddress string
	Timestamp time.Time
}

func (e *Entry) ToDataModel() *auditDatamodel.AuditLog {
	m := &auditDatamodel.AuditLog{
		ID:        e.ID,
		Action:    string(e.Action),
		UserID:    e.UserID,
		Details:   e.Details,
		IPAddress: e.IPAddress,
		Timestamp: e.Timestamp,
	}
	if e.LeaveID != "" {
		leaveID := e.LeaveID
		m.LeaveID = &leaveID
	}
	return m
}

func FromDataModel(m *auditDatamodel.AuditLog) *Entry {
	e := &Entry{
		ID:        m.ID,
		Action:    Action(m.Action),
		UserID:    m.UserID,
		Details:   m.Details,
		IPAddress: m.IPAddress,
		Timestamp: m.Timestamp,
	}
	if m.LeaveID != nil {
		e.LeaveID = *m.LeaveID
	}
	return e
}
