package datamodel

import (
	auditDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/audit"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

// Models lists every persisted table in dependency order, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&leaveDatamodel.Leave{},
		&auditDatamodel.AuditLog{},
	}
}
