package postgres

import (
	"context"
	"errors"
	"time"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/leave"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeaveRepository implements the leave ledger using GORM
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.Repository {
	return &LeaveRepository{db: db}
}

func activeStatuses() []string {
	active := leave.ActiveStatuses()
	out := make([]string, len(active))
	for i, s := range active {
		out[i] = string(s)
	}
	return out
}

// CreateIfNoOverlap runs the overlap query and the insert in one transaction.
// On postgres the owner's row is locked first so concurrent submissions by the
// same owner serialize; sqlite has a single writer anyway.
func (r *LeaveRepository) CreateIfNoOverlap(ctx context.Context, l *leaveDatamodel.Leave) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			var owner userDatamodel.User
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").
				Where("id = ?", l.OwnerID).
				First(&owner).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		var count int64
		err := tx.Model(&leaveDatamodel.Leave{}).
			Where("owner_id = ?", l.OwnerID).
			Where("status IN ?", activeStatuses()).
			Where("start_date <= ? AND end_date >= ?", l.EndDate, l.StartDate).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return leave.ErrOverlapConflict
		}

		return tx.Omit(clause.Associations).Create(l).Error
	})
}

// ListByOwner returns the owner's requests newest first, with reviewer names.
func (r *LeaveRepository) ListByOwner(ctx context.Context, ownerID string) ([]*leaveDatamodel.Leave, error) {
	var leaves []*leaveDatamodel.Leave
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("owner_id = ?", ownerID).
		Order("applied_at DESC").
		Find(&leaves).Error
	return leaves, err
}

// ListAll returns every request newest first, with owner and reviewer data.
func (r *LeaveRepository) ListAll(ctx context.Context) ([]*leaveDatamodel.Leave, error) {
	var leaves []*leaveDatamodel.Leave
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Reviewer").
		Order("applied_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *LeaveRepository) GetByID(ctx context.Context, id string) (*leaveDatamodel.Leave, error) {
	var l leaveDatamodel.Leave
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Reviewer").
		Where("id = ?", id).
		First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leave.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Decide is a conditional update on status = pending, so of two concurrent
// decisions on the same id exactly one affects a row. When nothing matched the
// row is re-read to tell a missing request from one already decided.
func (r *LeaveRepository) Decide(ctx context.Context, id string, d leave.Decision) (*leaveDatamodel.Leave, error) {
	res := r.db.WithContext(ctx).Model(&leaveDatamodel.Leave{}).
		Where("id = ? AND status = ?", id, string(leave.StatusPending)).
		Updates(map[string]interface{}{
			"status":         string(d.Status),
			"admin_comments": d.Comments,
			"reviewer_id":    d.ReviewerID,
			"reviewed_at":    d.ReviewedAt,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, leave.ErrIllegalTransition
	}

	return r.GetByID(ctx, id)
}
