package admin

import "context"

type AdminRepository interface {
	List(ctx context.Context) ([]Admin, error)
	GetByID(ctx context.Context, id string) (Admin, error)
	GetByUserID(ctx context.Context, userID string) (Admin, error)
	GetByEmail(ctx context.Context, email string) (Admin, error)
	Create(ctx context.Context, newAdmin Admin) (Admin, error)
}
