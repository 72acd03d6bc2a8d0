package leave

import (
	"time"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

type Leave struct {
	ID            string              `gorm:"primaryKey;type:varchar(36)"`
	OwnerID       string              `gorm:"column:owner_id;type:varchar(36);not null;index:idx_leaves_owner_status"`
	LeaveType     string              `gorm:"column:leave_type;not null"`
	StartDate     time.Time           `gorm:"column:start_date;not null;index:idx_leaves_dates"`
	EndDate       time.Time           `gorm:"column:end_date;not null;index:idx_leaves_dates"`
	TotalDays     int                 `gorm:"column:total_days;not null"`
	Reason        string              `gorm:"column:reason;not null"`
	Status        string              `gorm:"column:status;not null;default:pending;index:idx_leaves_owner_status"`
	AppliedAt     time.Time           `gorm:"column:applied_at;not null"`
	AdminComments string              `gorm:"column:admin_comments"`
	ReviewerID    *string             `gorm:"column:reviewer_id;type:varchar(36)"`
	ReviewedAt    *time.Time          `gorm:"column:reviewed_at"`
	CreatedAt     time.Time           `gorm:"column:created_at"`
	UpdatedAt     time.Time           `gorm:"column:updated_at"`
	Owner         *userDatamodel.User `gorm:"foreignKey:OwnerID;references:ID"`
	Reviewer      *userDatamodel.User `gorm:"foreignKey:ReviewerID;references:ID"`
}

func (Leave) TableName() string {
	return "leaves"
}
