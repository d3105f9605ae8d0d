package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const recordColumns = `r.id, r.employee_id, r.entry_type, r.timestamp, r.snapshot_url, r.created_at, e.name, e.job_class`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.EntryType, &rec.Timestamp, &rec.SnapshotURL, &rec.CreatedAt,
		&rec.EmployeeName, &rec.JobClass,
	)
	if isNotFound(err) {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, err
}

func collectRecords(rows pgx.Rows) ([]attendance.Record, error) {
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH r AS (
			INSERT INTO attendance_records (employee_id, entry_type, timestamp, snapshot_url)
			VALUES ($1, $2, $3, $4)
			RETURNING id, employee_id, entry_type, timestamp, snapshot_url, created_at
		)
		SELECT ` + recordColumns + `
		FROM r
		JOIN employees e ON e.id = r.employee_id
	`

	created, err := scanRecord(q.QueryRow(ctx, query,
		record.EmployeeID, string(record.EntryType), record.Timestamp.UTC(), record.SnapshotURL,
	))
	if isForeignKeyViolation(err) {
		return attendance.Record{}, attendance.ErrEmployeeNotFound
	}
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to insert attendance record: %w", err)
	}
	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.id = $1
	`
	return scanRecord(q.QueryRow(ctx, query, id))
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if isNotFound(err) {
		return attendance.ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// DeleteByEmployeeID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) DeleteByEmployeeID(ctx context.Context, employeeID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE employee_id = $1`, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attendance records: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateSnapshotURL implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateSnapshotURL(ctx context.Context, id string, snapshotURL string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE attendance_records SET snapshot_url = $1 WHERE id = $2`, snapshotURL, id)
	if isNotFound(err) {
		return attendance.ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update snapshot url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, query attendance.RecordQuery) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if query.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("r.employee_id = $%d", argIdx))
		args = append(args, *query.EmployeeID)
		argIdx++
	}
	if query.EntryType != nil {
		conditions = append(conditions, fmt.Sprintf("r.entry_type = $%d", argIdx))
		args = append(args, string(*query.EntryType))
		argIdx++
	}
	if query.From != nil {
		conditions = append(conditions, fmt.Sprintf("r.timestamp >= $%d", argIdx))
		args = append(args, query.From.UTC())
		argIdx++
	}
	if query.To != nil {
		conditions = append(conditions, fmt.Sprintf("r.timestamp < $%d", argIdx))
		args = append(args, query.To.UTC())
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendance_records r WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	sql := fmt.Sprintf(`
		SELECT %s
		FROM attendance_records r
		JOIN employees e ON e.id = r.employee_id
		WHERE %s
		ORDER BY r.timestamp DESC, r.id
		LIMIT $%d OFFSET $%d
	`, recordColumns, whereClause, argIdx, argIdx+1)
	args = append(args, query.Limit, query.Offset)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}

	records, err := collectRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListBetween implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListBetween(ctx context.Context, from, to time.Time, employeeID *string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT ` + recordColumns + `
		FROM attendance_records r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.timestamp >= $1 AND r.timestamp < $2
		  AND ($3::uuid IS NULL OR r.employee_id = $3::uuid)
		ORDER BY r.timestamp ASC, r.id
	`
	rows, err := q.Query(ctx, sql, from.UTC(), to.UTC(), employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return collectRecords(rows)
}
