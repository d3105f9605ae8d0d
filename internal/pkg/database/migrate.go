package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed schema.sql
var schemaSQL string

// AttendanceChannel is the NOTIFY channel fired by the attendance_records trigger.
const AttendanceChannel = "attendance_changes"

// Migrate applies the idempotent schema. It is safe to run on every start.
func Migrate(ctx context.Context, db *DB) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	slog.Info("Database schema applied")
	return nil
}
