package cmd

import (
	"context"
	"errors"
	"fmt"

	auditDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/audit"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/user"
	userPostgres "github.com/frahmantamala/leave-management/internal/user/postgres"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@company.com"
	defaultEmployeeEmail = "employee@company.com"
)

var (
	clearData    bool
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample accounts",
	Long:  `Create an allow-listed admin and a sample employee for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		lg := logger.LoggerWrapper()

		db, sqlDB, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if clearData {
			if err := clearTables(db); err != nil {
				return err
			}
			lg.Info("cleared existing data")
		}

		users := user.NewService(userPostgres.NewUserRepository(db), lg, user.WithBcryptCost(cfg.Security.BCryptCost))

		adminEmail := defaultAdminEmail
		if admins := cfg.Security.NormalizedAdminEmails(); len(admins) > 0 {
			adminEmail = admins[0]
		} else {
			lg.Warn("no admin_emails configured, seeding the default admin address", "email", adminEmail)
		}

		if err := seedAccount(ctx, users, adminEmail, user.RoleAdmin); err != nil {
			return err
		}
		if err := seedAccount(ctx, users, defaultEmployeeEmail, user.RoleEmployee); err != nil {
			return err
		}

		fmt.Println("Seeded accounts:", adminEmail, defaultEmployeeEmail)
		return nil
	},
}

// seedAccount creates the account, or promotes an existing employee when the
// wanted role is admin.
func seedAccount(ctx context.Context, users *user.Service, email string, role user.Role) error {
	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if role == user.RoleAdmin && !existing.IsAdmin() {
			if _, err := users.UpdateRole(ctx, existing.ID, user.RoleAdmin, user.DepartmentFor(user.RoleAdmin)); err != nil {
				return fmt.Errorf("promote %s: %w", email, err)
			}
		}
		return nil
	case !errors.Is(err, user.ErrNotFound):
		return fmt.Errorf("lookup %s: %w", email, err)
	}

	if _, err := users.Create(ctx, user.Profile{Email: email, Password: seedPassword, Role: role}); err != nil {
		return fmt.Errorf("create %s: %w", email, err)
	}
	return nil
}

func clearTables(db *gorm.DB) error {
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&auditDatamodel.AuditLog{}, &leaveDatamodel.Leave{}, &userDatamodel.User{}} {
			if err := tx.Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "Password for the seeded accounts")
}
