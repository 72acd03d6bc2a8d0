package leave

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
)

// CreateLeaveDTO represents the request payload for submitting a leave request
type CreateLeaveDTO struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

// Period is a validated date range.
type Period struct {
	Start     time.Time
	End       time.Time
	TotalDays int
}

// Validate checks the request against today's calendar date and returns the
// parsed period. All field errors are reported together.
func (dto CreateLeaveDTO) Validate(today time.Time) (Period, error) {
	var start, end time.Time
	var parsedStart, parsedEnd bool

	v := validation.NewValidator()
	v.Field("leave_type", dto.LeaveType).Required().OneOf(typeNames(), apperrors.ErrCodeInvalidLeaveType)
	v.Field("start_date", dto.StartDate).Required().Custom(func(interface{}) *apperrors.AppError {
		var err error
		start, err = ParseDate(strings.TrimSpace(dto.StartDate))
		parsedStart = err == nil
		if err != nil {
			return apperrors.NewValidationFieldError("start_date", "start_date must be a YYYY-MM-DD date", apperrors.ErrCodeInvalidDate)
		}
		return nil
	})
	v.Field("end_date", dto.EndDate).Required().Custom(func(interface{}) *apperrors.AppError {
		var err error
		end, err = ParseDate(strings.TrimSpace(dto.EndDate))
		parsedEnd = err == nil
		if err != nil {
			return apperrors.NewValidationFieldError("end_date", "end_date must be a YYYY-MM-DD date", apperrors.ErrCodeInvalidDate)
		}
		return nil
	})
	v.Field("reason", strings.TrimSpace(dto.Reason)).Required().MaxLength(MaxReasonLength)

	fieldErrs := v.Validate()
	if !parsedStart || !parsedEnd {
		// a date is missing or unparseable, so fieldErrs is set
		return Period{}, fieldErrs
	}

	r := validation.NewValidator()
	r.Field("start_date", start).NotBefore(CalendarDay(today), "Start date cannot be in the past", apperrors.ErrCodeDateInPast)
	r.Field("end_date", end).NotBefore(start, "End date must be on or after start date", apperrors.ErrCodeInvalidRange)

	totalDays := TotalDays(start, end)
	if !end.Before(start) {
		r.Field("end_date", totalDays).Custom(func(interface{}) *apperrors.AppError {
			if totalDays > MaxLeaveDays {
				return apperrors.NewValidationFieldError("end_date",
					fmt.Sprintf("Leave cannot exceed %d days", MaxLeaveDays), apperrors.ErrCodeRangeTooLong)
			}
			return nil
		})
	}

	if err := validation.Merge(fieldErrs, r.Validate()); err != nil {
		return Period{}, err
	}
	return Period{Start: start, End: end, TotalDays: totalDays}, nil
}

// DecideLeaveDTO represents the request for approving or rejecting a leave
type DecideLeaveDTO struct {
	Status   string `json:"status"`
	Comments string `json:"comments"`
}

func (dto DecideLeaveDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", dto.Status).Required().OneOf(decisionNames(), apperrors.ErrCodeInvalidStatus)
	v.Field("comments", strings.TrimSpace(dto.Comments)).MaxLength(MaxCommentsLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
