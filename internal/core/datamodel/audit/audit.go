package audit

import "time"

type AuditLog struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Action    string    `gorm:"column:action;not null"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);not null;index"`
	LeaveID   *string   `gorm:"column:leave_id;type:varchar(36)"`
	Details   string    `gorm:"column:details"`
	IPAddress string    `gorm:"column:ip_address"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
