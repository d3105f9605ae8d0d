package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, name, email, phone, job_class, hire_date, photo_url, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Phone, &emp.JobClass,
		&emp.HireDate, &emp.PhotoURL, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if isNotFound(err) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, err
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	return scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
}

// GetByName implements employee.EmployeeRepository. Names are matched case-insensitively,
// which is how the recognizer reports them.
func (e *employeeRepositoryImpl) GetByName(ctx context.Context, name string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	return scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE LOWER(name) = LOWER($1)`, name))
}

// ExistsByName implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE LOWER(name) = LOWER($1))`
	args := []interface{}{name}
	if excludeID != nil {
		query = `SELECT EXISTS(SELECT 1 FROM employees WHERE LOWER(name) = LOWER($1) AND id <> $2)`
		args = append(args, *excludeID)
	}

	var exists bool
	if err := q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (name, email, phone, job_class, hire_date, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.Name, newEmployee.Email, newEmployee.Phone,
		newEmployee.JobClass, newEmployee.HireDate, newEmployee.PhotoURL,
	))
	if isUniqueViolation(err, "") {
		return employee.Employee{}, employee.ErrEmployeeNameExists
	}
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to insert employee: %w", err)
	}
	return created, nil
}

// Update implements employee.EmployeeRepository. Blank optional fields are set to NULL.
func (e *employeeRepositoryImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = nullIfBlank(*req.Email)
	}
	if req.Phone != nil {
		updates["phone"] = nullIfBlank(*req.Phone)
	}
	if req.JobClass != nil && strings.TrimSpace(*req.JobClass) != "" {
		updates["job_class"] = strings.TrimSpace(*req.JobClass)
	}
	if req.HireDate != nil {
		if strings.TrimSpace(*req.HireDate) == "" {
			updates["hire_date"] = nil
		} else {
			parsedHireDate, _ := time.Parse("2006-01-02", strings.TrimSpace(*req.HireDate))
			updates["hire_date"] = parsedHireDate
		}
	}

	if len(updates) == 0 {
		return e.GetByID(ctx, req.ID)
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d RETURNING %s", strings.Join(setClauses, ", "), i, employeeColumns)
	args = append(args, req.ID)

	updated, err := scanEmployee(q.QueryRow(ctx, sql, args...))
	if isUniqueViolation(err, "") {
		return employee.Employee{}, employee.ErrEmployeeNameExists
	}
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.Employee{}, fmt.Errorf("failed to update employee with id %s: %w", req.ID, err)
	}
	return updated, err
}

// UpdatePhotoURL implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdatePhotoURL(ctx context.Context, id string, photoURL *string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET photo_url = $1, updated_at = NOW() WHERE id = $2`, photoURL, id)
	if isNotFound(err) {
		return employee.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update photo url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if isNotFound(err) {
		return employee.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	// Build WHERE conditions
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.JobClass != nil && *filter.JobClass != "" {
		conditions = append(conditions, fmt.Sprintf("job_class = $%d", argIdx))
		args = append(args, *filter.JobClass)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count query
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	// Validate sort column
	validSortColumns := map[string]string{
		"name":       "name",
		"created_at": "created_at",
		"job_class":  "job_class",
		"hire_date":  "hire_date",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}

	sortOrder := "DESC"
	if strings.ToUpper(filter.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}

	// Main query with pagination; id breaks ties so pages are stable
	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE %s
		ORDER BY %s %s NULLS LAST, id
		LIMIT $%d OFFSET $%d
	`, employeeColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}

	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// Search implements employee.EmployeeRepository. Prefix matches sort before substring matches.
func (e *employeeRepositoryImpl) Search(ctx context.Context, query string, limit int) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	sql := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE name ILIKE $1
		ORDER BY (name ILIKE $2) DESC, name ASC
		LIMIT $3
	`
	rows, err := q.Query(ctx, sql, "%"+query+"%", query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	return collectEmployees(rows)
}

// ListAll implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListAll(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return collectEmployees(rows)
}

func nullIfBlank(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
