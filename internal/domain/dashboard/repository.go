package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
)

type DashboardRepository interface {
	CountEmployees(ctx context.Context) (int64, error)

	// CountPresent counts distinct employees with any record in [from, to)
	CountPresent(ctx context.Context, from, to time.Time) (int64, error)

	RecentRecords(ctx context.Context, limit int) ([]attendance.Record, error)
}
