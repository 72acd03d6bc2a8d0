package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/frahmantamala/leave-management/internal"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/google/uuid"
)

// Decision is the change a reviewer applies to a pending request.
type Decision struct {
	Status     Status
	Comments   string
	ReviewerID string
	ReviewedAt time.Time
}

// Repository is the leave ledger.
type Repository interface {
	// CreateIfNoOverlap inserts l unless the owner already holds an active
	// request intersecting it, in which case ErrOverlapConflict is returned.
	CreateIfNoOverlap(ctx context.Context, l *leaveDatamodel.Leave) error
	ListByOwner(ctx context.Context, ownerID string) ([]*leaveDatamodel.Leave, error)
	ListAll(ctx context.Context) ([]*leaveDatamodel.Leave, error)
	GetByID(ctx context.Context, id string) (*leaveDatamodel.Leave, error)
	// Decide applies d only while the request is pending.
	Decide(ctx context.Context, id string, d Decision) (*leaveDatamodel.Leave, error)
}

// Service is the leave workflow engine. Callers are expected to have checked
// roles already: employees create and list their own, admins list all and
// decide.
type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger, opts ...Option) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the current UTC calendar day.
func (s *Service) Today() time.Time {
	return CalendarDay(s.now())
}

func (s *Service) Create(ctx context.Context, ownerID string, dto CreateLeaveDTO) (*Leave, error) {
	period, err := dto.Validate(s.Today())
	if err != nil {
		s.logger.Info("leave validation failed", "owner_id", ownerID, "error", err)
		return nil, err
	}

	now := s.now().UTC()
	l := &Leave{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		LeaveType: LeaveType(dto.LeaveType),
		StartDate: period.Start,
		EndDate:   period.End,
		TotalDays: period.TotalDays,
		Reason:    strings.TrimSpace(dto.Reason),
		Status:    StatusPending,
		AppliedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateIfNoOverlap(ctx, ToDataModel(l)); err != nil {
		if errors.Is(err, ErrOverlapConflict) {
			s.logger.Info("leave overlaps an active request", "owner_id", ownerID,
				"start_date", l.StartDate.Format(DateLayout), "end_date", l.EndDate.Format(DateLayout))
			return nil, err
		}
		s.logger.Error("failed to create leave", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("create leave: %w", err)
	}

	s.logger.Info("leave created", "leave_id", l.ID, "owner_id", ownerID, "total_days", l.TotalDays)
	_ = s.publisher.Publish(ctx, events.NewLeaveCreatedEvent(l.ID, ownerID, string(l.LeaveType), l.TotalDays, apperrors.ClientIPFromContext(ctx)))
	return l, nil
}

// ListByOwner returns the owner's requests, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]*Leave, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list leaves", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("list leaves by owner: %w", err)
	}
	return fromDataModels(rows), nil
}

// ListAll returns every request with owner display data, newest first.
func (s *Service) ListAll(ctx context.Context) ([]*Leave, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list all leaves", "error", err)
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	return fromDataModels(rows), nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*Leave, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// Decide moves a pending request to approved or rejected. A request can be
// decided once; later calls fail with ErrIllegalTransition and leave the
// record untouched.
func (s *Service) Decide(ctx context.Context, id, reviewerID string, dto DecideLeaveDTO) (*Leave, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.Decide(ctx, id, Decision{
		Status:     Status(dto.Status),
		Comments:   strings.TrimSpace(dto.Comments),
		ReviewerID: reviewerID,
		ReviewedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrIllegalTransition) {
			s.logger.Info("leave decision refused", "leave_id", id, "reviewer_id", reviewerID, "error", err)
			return nil, err
		}
		s.logger.Error("failed to decide leave", "leave_id", id, "error", err)
		return nil, fmt.Errorf("decide leave: %w", err)
	}

	l := FromDataModel(row)
	s.logger.Info("leave decided", "leave_id", id, "reviewer_id", reviewerID, "status", l.Status)
	_ = s.publisher.Publish(ctx, events.NewLeaveDecidedEvent(l.ID, reviewerID, string(l.Status), apperrors.ClientIPFromContext(ctx)))
	return l, nil
}

func (s *Service) LeaveTypes() []TypeInfo {
	return Types()
}

func fromDataModels(rows []*leaveDatamodel.Leave) []*Leave {
	out := make([]*Leave, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return out
}
