package admin

import "context"

// AdminService manages dashboard administrators.
type AdminService interface {
	// ListAdmins returns all admins, newest first
	ListAdmins(ctx context.Context) ([]AdminResponse, error)

	// CreateAdmin creates the login user and the admin profile together
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (AdminResponse, error)

	// DeleteAdmin removes an admin and its login; the caller cannot remove itself
	DeleteAdmin(ctx context.Context, id string) error

	// GetCurrentAdmin resolves the admin behind the access token in ctx
	GetCurrentAdmin(ctx context.Context) (AdminResponse, error)
}
