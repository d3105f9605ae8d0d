package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountEmployees returns the size of the employee directory
func (r *dashboardRepositoryImpl) CountEmployees(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return total, nil
}

// CountPresent counts distinct employees seen in [from, to)
func (r *dashboardRepositoryImpl) CountPresent(ctx context.Context, from, to time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(DISTINCT employee_id)
		FROM attendance_records
		WHERE timestamp >= $1 AND timestamp < $2
	`

	var present int64
	if err := q.QueryRow(ctx, query, from.UTC(), to.UTC()).Scan(&present); err != nil {
		return 0, fmt.Errorf("failed to count present employees: %w", err)
	}
	return present, nil
}

// RecentRecords returns the latest records joined with the employee
func (r *dashboardRepositoryImpl) RecentRecords(ctx context.Context, limit int) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records r
		JOIN employees e ON e.id = r.employee_id
		ORDER BY r.timestamp DESC, r.id
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent records: %w", err)
	}
	return collectRecords(rows)
}
