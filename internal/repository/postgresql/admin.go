package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/admin"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const adminColumns = `id, user_id, name, email, created_at`

type adminRepositoryImpl struct {
	db *database.DB
}

func NewAdminRepository(db *database.DB) admin.AdminRepository {
	return &adminRepositoryImpl{db: db}
}

func scanAdmin(row pgx.Row) (admin.Admin, error) {
	var a admin.Admin
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Email, &a.CreatedAt)
	if isNotFound(err) {
		return admin.Admin{}, admin.ErrAdminNotFound
	}
	return a, err
}

// List implements admin.AdminRepository.
func (r *adminRepositoryImpl) List(ctx context.Context) ([]admin.Admin, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	admins := make([]admin.Admin, 0)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// GetByID implements admin.AdminRepository.
func (r *adminRepositoryImpl) GetByID(ctx context.Context, id string) (admin.Admin, error) {
	q := GetQuerier(ctx, r.db)
	return scanAdmin(q.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
}

// GetByUserID implements admin.AdminRepository.
func (r *adminRepositoryImpl) GetByUserID(ctx context.Context, userID string) (admin.Admin, error) {
	q := GetQuerier(ctx, r.db)
	return scanAdmin(q.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE user_id = $1`, userID))
}

// GetByEmail implements admin.AdminRepository.
func (r *adminRepositoryImpl) GetByEmail(ctx context.Context, email string) (admin.Admin, error) {
	q := GetQuerier(ctx, r.db)
	return scanAdmin(q.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, email))
}

// Create implements admin.AdminRepository.
func (r *adminRepositoryImpl) Create(ctx context.Context, newAdmin admin.Admin) (admin.Admin, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO admins (user_id, name, email)
		VALUES ($1, $2, $3)
		RETURNING ` + adminColumns

	created, err := scanAdmin(q.QueryRow(ctx, query, newAdmin.UserID, newAdmin.Name, newAdmin.Email))
	if isUniqueViolation(err, "") {
		return admin.Admin{}, admin.ErrAdminEmailExists
	}
	if err != nil {
		return admin.Admin{}, fmt.Errorf("failed to insert admin: %w", err)
	}
	return created, nil
}
