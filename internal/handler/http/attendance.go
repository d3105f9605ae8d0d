package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	UploadSnapshot(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

func attendanceFilterFrom(r *http.Request) attendance.AttendanceFilter {
	return attendance.AttendanceFilter{
		EmployeeID: queryPtr(r, "employee_id"),
		EntryType:  queryPtr(r, "entry_type"),
		DateFrom:   queryPtr(r, "date_from"),
		DateTo:     queryPtr(r, "date_to"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 50),
	}
}

// Record implements AttendanceHandler.
func (h *attendanceHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecordAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Record attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.RecordAttendance(r.Context(), req)
	if err != nil {
		if errors.Is(err, attendance.ErrCooldownActive) {
			slog.Debug("Attendance skipped by cooldown", "employee_name", req.EmployeeName, "entry_type", req.EntryType)
		} else {
			slog.Error("Record attendance service error", "error", err)
		}
		response.HandleError(w, err)
		return
	}

	slog.Info("Attendance recorded", "employee", result.EmployeeName, "entry_type", result.EntryType)
	response.Created(w, "Attendance recorded", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.attendanceService.ListRecords(r.Context(), attendanceFilterFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.attendanceService.DeleteRecord(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Attendance record deleted", "record_id", id)
	response.SuccessWithMessage(w, "Attendance record deleted", nil)
}

// UploadSnapshot implements AttendanceHandler.
func (h *attendanceHandlerImpl) UploadSnapshot(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, attendance.MaxSnapshotSize+(1<<20))
	if err := r.ParseMultipartForm(attendance.MaxSnapshotSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("snapshot")
	if err != nil {
		response.BadRequest(w, "Snapshot file is required", nil)
		return
	}
	defer file.Close()

	result, err := h.attendanceService.UploadSnapshot(r.Context(), attendance.UploadSnapshotRequest{
		RecordID: chi.URLParam(r, "id"),
		File:     file,
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Snapshot uploaded", result)
}
