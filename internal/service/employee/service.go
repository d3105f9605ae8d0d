package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/recognition"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/face-attendance-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/face-attendance-go/internal/service/file"
)

type EmployeeServiceImpl struct {
	txManager      postgresql.TxManager
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	fileService    file.FileService
	recognitionSvc recognition.RecognitionService
}

func NewEmployeeService(
	txManager postgresql.TxManager,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	fileService file.FileService,
	recognitionSvc recognition.RecognitionService,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		txManager:      txManager,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		fileService:    fileService,
		recognitionSvc: recognitionSvc,
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := employee.ListEmployeeResponse{
		TotalCount:  total,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		CurrentPage: filter.Page,
		PageSize:    filter.Limit,
		Employees:   make([]employee.EmployeeResponse, 0, len(employees)),
	}
	for _, e := range employees {
		resp.Employees = append(resp.Employees, employee.ToResponse(e))
	}
	return resp, nil
}

// SearchEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SearchEmployees(ctx context.Context, req employee.SearchEmployeeRequest) ([]employee.SearchEmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.Search(ctx, req.Query, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}

	resp := make([]employee.SearchEmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, employee.SearchEmployeeResponse{
			ID:       e.ID,
			Name:     e.Name,
			JobClass: e.JobClass,
			PhotoURL: e.PhotoURL,
		})
	}
	return resp, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(e), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.create(ctx, req)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created", "employee_id", created.ID, "name", created.Name)
	return employee.ToResponse(created), nil
}

// create expects a validated request.
func (s *EmployeeServiceImpl) create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	exists, err := s.employeeRepo.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to check employee name: %w", err)
	}
	if exists {
		return employee.Employee{}, employee.ErrEmployeeNameExists
	}

	newEmployee := employee.Employee{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		JobClass: employee.DefaultJobClass,
	}
	if req.JobClass != nil {
		newEmployee.JobClass = *req.JobClass
	}
	if req.HireDate != nil {
		hireDate, err := time.Parse("2006-01-02", *req.HireDate)
		if err != nil {
			return employee.Employee{}, fmt.Errorf("invalid hire date: %w", err)
		}
		newEmployee.HireDate = &hireDate
	}

	return s.employeeRepo.Create(ctx, newEmployee)
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	renamed := req.Name != nil && *req.Name != existing.Name
	if renamed {
		exists, err := s.employeeRepo.ExistsByName(ctx, *req.Name, &req.ID)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee name: %w", err)
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNameExists
		}
	}

	updated, err := s.employeeRepo.Update(ctx, req)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	// The face photo is keyed by name, so it has to follow a rename.
	if renamed && existing.HasPhoto() {
		url, err := s.fileService.RenameFacePhoto(ctx, existing.Name, updated.Name)
		if err != nil {
			slog.Error("Failed to move face photo after rename", "employee_id", updated.ID, "error", err)
		} else {
			if err := s.employeeRepo.UpdatePhotoURL(ctx, updated.ID, &url); err != nil {
				return employee.EmployeeResponse{}, fmt.Errorf("failed to update photo url: %w", err)
			}
			updated.PhotoURL = &url
		}
	}

	return employee.ToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var removedRecords int64
	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		removedRecords, err = s.attendanceRepo.DeleteByEmployeeID(txCtx, id)
		if err != nil {
			return err
		}
		return s.employeeRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	// Only after commit, so a failed delete keeps the photo
	if _, err := s.fileService.DeleteFacePhoto(ctx, existing.Name); err != nil {
		slog.Warn("Failed to delete face photo", "employee_id", id, "error", err)
	}

	slog.Info("Employee deleted", "employee_id", id, "attendance_records", removedRecords)
	return nil
}

// UploadPhoto implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UploadPhoto(ctx context.Context, req employee.UploadPhotoRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	url, err := s.fileService.UploadFacePhoto(ctx, existing.Name, req.File)
	if err != nil {
		if errors.Is(err, file.ErrUnsupportedImage) {
			return employee.EmployeeResponse{}, employee.ErrInvalidImage
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to upload photo: %w", err)
	}

	if err := s.employeeRepo.UpdatePhotoURL(ctx, existing.ID, &url); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update photo url: %w", err)
	}
	existing.PhotoURL = &url

	return employee.ToResponse(existing), nil
}

// DeletePhoto implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeletePhoto(ctx context.Context, id string) (employee.DeletePhotoResponse, error) {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.DeletePhotoResponse{}, err
	}

	deleted, err := s.fileService.DeleteFacePhoto(ctx, existing.Name)
	if err != nil {
		return employee.DeletePhotoResponse{}, fmt.Errorf("failed to delete photo: %w", err)
	}

	if existing.HasPhoto() {
		if err := s.employeeRepo.UpdatePhotoURL(ctx, existing.ID, nil); err != nil {
			return employee.DeletePhotoResponse{}, fmt.Errorf("failed to clear photo url: %w", err)
		}
	}

	return employee.DeletePhotoResponse{Deleted: deleted}, nil
}

// ImportEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ImportEmployees(ctx context.Context, req employee.ImportEmployeesRequest) (employee.ImportEmployeesResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.ImportEmployeesResponse{}, err
	}

	rows, err := spreadsheet.ReadRoster(req.File, req.Filename)
	if err != nil {
		switch {
		case errors.Is(err, spreadsheet.ErrUnsupportedFormat):
			return employee.ImportEmployeesResponse{}, employee.ErrUnsupportedImport
		case errors.Is(err, spreadsheet.ErrEmpty):
			return employee.ImportEmployeesResponse{}, employee.ErrEmptyImport
		case errors.Is(err, spreadsheet.ErrMissingName):
			return employee.ImportEmployeesResponse{}, employee.ErrMissingNameColumn
		}
		return employee.ImportEmployeesResponse{}, fmt.Errorf("failed to read import file: %w", err)
	}

	resp := employee.ImportEmployeesResponse{Errors: make([]employee.ImportRowError, 0)}
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		createReq := employee.CreateEmployeeRequest{
			Name:     row.Name,
			Email:    &row.Email,
			Phone:    &row.Phone,
			JobClass: &row.JobClass,
			HireDate: &row.HireDate,
		}
		if err := createReq.Validate(); err != nil {
			resp.Errors = append(resp.Errors, employee.ImportRowError{Row: row.Line, Name: row.Name, Message: err.Error()})
			continue
		}

		key := strings.ToLower(createReq.Name)
		if seen[key] {
			resp.Skipped++
			continue
		}
		seen[key] = true

		if _, err := s.create(ctx, createReq); err != nil {
			if errors.Is(err, employee.ErrEmployeeNameExists) {
				resp.Skipped++
				continue
			}
			resp.Errors = append(resp.Errors, employee.ImportRowError{Row: row.Line, Name: row.Name, Message: err.Error()})
			continue
		}
		resp.Created++
	}

	slog.Info("Employee import finished", "file", req.Filename, "created", resp.Created, "skipped", resp.Skipped, "errors", len(resp.Errors))
	return resp, nil
}

// RegisterFace implements employee.EmployeeService.
func (s *EmployeeServiceImpl) RegisterFace(ctx context.Context, id string) error {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.HasPhoto() {
		return employee.ErrPhotoNotFound
	}

	image, err := s.fileService.ReadFacePhoto(ctx, existing.Name)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return employee.ErrPhotoNotFound
		}
		return fmt.Errorf("failed to read face photo: %w", err)
	}

	return s.recognitionSvc.RegisterFace(ctx, existing.Name, image)
}
