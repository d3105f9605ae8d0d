package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	SearchEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	UploadPhoto(w http.ResponseWriter, r *http.Request)
	DeletePhoto(w http.ResponseWriter, r *http.Request)
	RegisterFace(w http.ResponseWriter, r *http.Request)
	ImportEmployees(w http.ResponseWriter, r *http.Request)
	ListAttendance(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService   employee.EmployeeService
	attendanceService attendance.AttendanceService
}

func NewEmployeeHandler(employeeService employee.EmployeeService, attendanceService attendance.AttendanceService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService:   employeeService,
		attendanceService: attendanceService,
	}
}

// ListEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{
		Search:    queryPtr(r, "search"),
		JobClass:  queryPtr(r, "job_class"),
		Page:      queryInt(r, "page", 1),
		Limit:     queryInt(r, "limit", employee.DefaultPerPage),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}

	results, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// SearchEmployees implements EmployeeHandler - autocomplete search
func (h *employeeHandlerImpl) SearchEmployees(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		query = r.URL.Query().Get("query")
	}

	results, err := h.employeeService.SearchEmployees(r.Context(), employee.SearchEmployeeRequest{
		Query: query,
		Limit: queryInt(r, "limit", 10),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee created", "employee_id", result.ID, "name", result.Name)
	response.Created(w, "Employee created successfully", result)
}

// UpdateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// DeleteEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.employeeService.DeleteEmployee(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee deleted", "employee_id", id)
	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

// UploadPhoto implements EmployeeHandler
func (h *employeeHandlerImpl) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, employee.MaxPhotoSize+(1<<20))
	if err := r.ParseMultipartForm(employee.MaxPhotoSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Photo file is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	result, err := h.employeeService.UploadPhoto(r.Context(), employee.UploadPhotoRequest{
		EmployeeID:  chi.URLParam(r, "id"),
		File:        file,
		Filename:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Photo uploaded successfully", result)
}

// DeletePhoto implements EmployeeHandler
func (h *employeeHandlerImpl) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.DeletePhoto(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RegisterFace implements EmployeeHandler
func (h *employeeHandlerImpl) RegisterFace(w http.ResponseWriter, r *http.Request) {
	if err := h.employeeService.RegisterFace(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Face sent to the recognition service", nil)
}

// ImportEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ImportEmployees(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, employee.MaxImportSize+(1<<20))
	if err := r.ParseMultipartForm(employee.MaxImportSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Import file is required", nil)
		return
	}
	defer file.Close()

	result, err := h.employeeService.ImportEmployees(r.Context(), employee.ImportEmployeesRequest{
		File:     file,
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Employees imported", "created", result.Created, "skipped", result.Skipped, "errors", len(result.Errors))
	response.SuccessWithMessage(w, "Import finished", result)
}

// ListAttendance implements EmployeeHandler
func (h *employeeHandlerImpl) ListAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.employeeService.GetEmployee(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	filter := attendanceFilterFrom(r)
	filter.EmployeeID = &id

	results, err := h.attendanceService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
