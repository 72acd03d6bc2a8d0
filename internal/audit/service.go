package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	auditDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/audit"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, log *auditDatamodel.AuditLog) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record stamps the entry with an id and timestamp when missing and stores it.
func (s *Service) Record(ctx context.Context, e Entry) (*Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now().UTC()
	}

	if err := s.repo.Create(ctx, e.ToDataModel()); err != nil {
		s.logger.Error("failed to write audit record", "action", e.Action, "user_id", e.UserID, "error", err)
		return nil, fmt.Errorf("record audit %s: %w", e.Action, err)
	}

	s.logger.Debug("audit record written", "action", e.Action, "audit_id", e.ID)
	return &e, nil
}
