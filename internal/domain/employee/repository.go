package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByName(ctx context.Context, name string) (Employee, error)
	ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (Employee, error)
	UpdatePhotoURL(ctx context.Context, id string, photoURL *string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	Search(ctx context.Context, query string, limit int) ([]Employee, error)
	ListAll(ctx context.Context) ([]Employee, error)
}
