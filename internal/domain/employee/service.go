package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// ListEmployees lists employees with search, sorting and pagination
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// SearchEmployees is the name autocomplete used by the person log
	SearchEmployees(ctx context.Context, req SearchEmployeeRequest) ([]SearchEmployeeResponse, error)

	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes the face photo, the attendance history and the employee
	DeleteEmployee(ctx context.Context, id string) error

	// UploadPhoto normalises and stores the face photo as <name>.jpg in the faces bucket
	UploadPhoto(ctx context.Context, req UploadPhotoRequest) (EmployeeResponse, error)

	// DeletePhoto removes every stored variant of the face photo
	DeletePhoto(ctx context.Context, id string) (DeletePhotoResponse, error)

	// ImportEmployees bulk-creates employees from a spreadsheet
	ImportEmployees(ctx context.Context, req ImportEmployeesRequest) (ImportEmployeesResponse, error)

	// RegisterFace pushes the stored photo to the recognizer
	RegisterFace(ctx context.Context, id string) error
}
