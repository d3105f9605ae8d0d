package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, record Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
	DeleteByEmployeeID(ctx context.Context, employeeID string) (int64, error)
	UpdateSnapshotURL(ctx context.Context, id string, snapshotURL string) error

	// List returns matching records newest first together with the total match count
	List(ctx context.Context, query RecordQuery) ([]Record, int64, error)

	// ListBetween returns records in [from, to) oldest first, joined with the employee
	ListBetween(ctx context.Context, from, to time.Time, employeeID *string) ([]Record, error)
}
