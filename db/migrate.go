package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

const migrationsTable = "schema_migrations"

// RunMigrations applies every pending postgres migration, or rolls back the
// latest one when rollback is set.
func RunMigrations(ctx context.Context, db *sql.DB, rollback bool) error {
	goose.SetBaseFS(EmbedMigrations)
	goose.SetTableName(migrationsTable)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	command := "up"
	if rollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, db, "migrations"); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
