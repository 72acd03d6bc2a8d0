package postgres

import (
	"context"

	"github.com/frahmantamala/leave-management/internal/audit"
	auditDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, log *auditDatamodel.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
