package leave

import (
	"math"
	"time"

	apperrors "github.com/frahmantamala/leave-management/internal"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

type LeaveType string

const (
	LeaveTypeSick        LeaveType = "sick"
	LeaveTypeVacation    LeaveType = "vacation"
	LeaveTypePersonal    LeaveType = "personal"
	LeaveTypeMaternity   LeaveType = "maternity"
	LeaveTypePaternity   LeaveType = "paternity"
	LeaveTypeBereavement LeaveType = "bereavement"
	LeaveTypeOther       LeaveType = "other"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	// StatusCancelled is part of the stored enum but no operation moves a
	// request into it yet.
	StatusCancelled Status = "cancelled"
)

const (
	DateLayout   = "2006-01-02"
	MaxLeaveDays = 30
	HoursPerDay  = 8

	MaxReasonLength   = 500
	MaxCommentsLength = 200
)

var (
	ErrNotFound          = apperrors.ErrLeaveNotFound
	ErrOverlapConflict   = apperrors.ErrLeaveOverlap
	ErrIllegalTransition = apperrors.ErrIllegalTransition
)

var statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

func filterStatuses(keep func(Status) bool) []Status {
	var out []Status
	for _, s := range statuses {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// ActiveStatuses are the states that block an overlapping request.
func ActiveStatuses() []Status {
	return filterStatuses(Status.IsActive)
}

// DecisionStatuses are the states a reviewer may move a pending request to.
func DecisionStatuses() []Status {
	return filterStatuses(Status.IsDecision)
}

type TypeInfo struct {
	Value       LeaveType `json:"value"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
}

var leaveTypes = []TypeInfo{
	{LeaveTypeSick, "Sick Leave", "Illness or medical appointments"},
	{LeaveTypeVacation, "Vacation", "Planned time off"},
	{LeaveTypePersonal, "Personal Leave", "Personal matters"},
	{LeaveTypeMaternity, "Maternity Leave", "Leave for childbirth and recovery"},
	{LeaveTypePaternity, "Paternity Leave", "Leave for a new parent"},
	{LeaveTypeBereavement, "Bereavement Leave", "Loss of a family member"},
	{LeaveTypeOther, "Other", "Anything not covered above"},
}

// Types returns the closed set of leave types in display order.
func Types() []TypeInfo {
	out := make([]TypeInfo, len(leaveTypes))
	copy(out, leaveTypes)
	return out
}

func typeNames() []string {
	names := make([]string, len(leaveTypes))
	for i, t := range leaveTypes {
		names[i] = string(t.Value)
	}
	return names
}

func decisionNames() []string {
	decisions := DecisionStatuses()
	names := make([]string, len(decisions))
	for i, s := range decisions {
		names[i] = string(s)
	}
	return names
}

// IsActive reports whether a request in state s still holds its dates.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// IsDecision reports whether s is a status a reviewer may set.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// ParseDate reads a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// CalendarDay truncates t to midnight UTC of its UTC calendar day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TotalDays is the inclusive day count between start and end, never below 1.
func TotalDays(start, end time.Time) int {
	days := int(math.Floor(CalendarDay(end).Sub(CalendarDay(start)).Hours()/24)) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Person is display data for the owner or reviewer of a request.
type Person struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
}

type Leave struct {
	ID            string
	OwnerID       string
	LeaveType     LeaveType
	StartDate     time.Time
	EndDate       time.Time
	TotalDays     int
	Reason        string
	Status        Status
	AppliedAt     time.Time
	AdminComments string
	ReviewerID    *string
	ReviewedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Owner         *Person
	Reviewer      *Person
}

func (l *Leave) TotalHours() int {
	return l.TotalDays * HoursPerDay
}

// Response is the wire projection of a leave request.
type Response struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	LeaveType     LeaveType  `json:"leave_type"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	TotalDays     int        `json:"total_days"`
	TotalHours    int        `json:"total_hours"`
	Reason        string     `json:"reason"`
	Status        Status     `json:"status"`
	AppliedAt     time.Time  `json:"applied_at"`
	AdminComments string     `json:"admin_comments"`
	ReviewerID    *string    `json:"reviewer_id,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	Owner         *Person    `json:"owner,omitempty"`
	Reviewer      *Person    `json:"reviewer,omitempty"`
}

func (l *Leave) ToResponse() Response {
	return Response{
		ID:            l.ID,
		OwnerID:       l.OwnerID,
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.UTC().Format(DateLayout),
		EndDate:       l.EndDate.UTC().Format(DateLayout),
		TotalDays:     l.TotalDays,
		TotalHours:    l.TotalHours(),
		Reason:        l.Reason,
		Status:        l.Status,
		AppliedAt:     l.AppliedAt,
		AdminComments: l.AdminComments,
		ReviewerID:    l.ReviewerID,
		ReviewedAt:    l.ReviewedAt,
		Owner:         l.Owner,
		Reviewer:      l.Reviewer,
	}
}

func ToResponses(leaves []*Leave) []Response {
	out := make([]Response, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, l.ToResponse())
	}
	return out
}

func ToDataModel(l *Leave) *leaveDatamodel.Leave {
	return &leaveDatamodel.Leave{
		ID:            l.ID,
		OwnerID:       l.OwnerID,
		LeaveType:     string(l.LeaveType),
		StartDate:     l.StartDate,
		EndDate:       l.EndDate,
		TotalDays:     l.TotalDays,
		Reason:        l.Reason,
		Status:        string(l.Status),
		AppliedAt:     l.AppliedAt,
		AdminComments: l.AdminComments,
		ReviewerID:    l.ReviewerID,
		ReviewedAt:    l.ReviewedAt,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func FromDataModel(l *leaveDatamodel.Leave) *Leave {
	return &Leave{
		ID:            l.ID,
		OwnerID:       l.OwnerID,
		LeaveType:     LeaveType(l.LeaveType),
		StartDate:     l.StartDate.UTC(),
		EndDate:       l.EndDate.UTC(),
		TotalDays:     l.TotalDays,
		Reason:        l.Reason,
		Status:        Status(l.Status),
		AppliedAt:     l.AppliedAt,
		AdminComments: l.AdminComments,
		ReviewerID:    l.ReviewerID,
		ReviewedAt:    l.ReviewedAt,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
		Owner:         personFrom(l.Owner, true),
		Reviewer:      personFrom(l.Reviewer, false),
	}
}

func personFrom(u *userDatamodel.User, withContact bool) *Person {
	if u == nil {
		return nil
	}
	p := &Person{ID: u.ID, Name: u.Name}
	if withContact {
		p.Email = u.Email
		p.Department = u.Department
	}
	return p
}
