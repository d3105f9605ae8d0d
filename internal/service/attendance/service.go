package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/worktime"
	"github.com/cmlabs-hris/face-attendance-go/internal/service/file"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	fileService    file.FileService
	cooldown       *cooldown
	loc            *time.Location
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	cooldownWindow time.Duration,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		fileService:    fileService,
		cooldown:       newCooldown(cooldownWindow),
		loc:            loc,
		now:            time.Now,
	}
}

func (s *AttendanceServiceImpl) resolveEmployee(ctx context.Context, req attendance.RecordAttendanceRequest) (employee.Employee, error) {
	var (
		emp employee.Employee
		err error
	)
	if req.EmployeeID != nil {
		emp, err = s.employeeRepo.GetByID(ctx, *req.EmployeeID)
	} else {
		emp, err = s.employeeRepo.GetByName(ctx, *req.EmployeeName)
	}
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, attendance.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to resolve employee: %w", err)
	}
	return emp, nil
}

// RecordAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordAttendance(ctx context.Context, req attendance.RecordAttendanceRequest) (attendance.RecordResponse, error) {
	// The recognizer stamps events in local wall-clock time without an offset
	req.Location = s.loc
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	emp, err := s.resolveEmployee(ctx, req)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	key := cooldownKey(emp.ID, req.EntryType)
	reservedAt := s.now()
	if !s.cooldown.reserve(key, reservedAt) {
		slog.Debug("Attendance ignored during cooldown", "employee_id", emp.ID, "entry_type", req.EntryType)
		return attendance.RecordResponse{}, attendance.ErrCooldownActive
	}

	record, err := s.attendanceRepo.Create(ctx, attendance.Record{
		EmployeeID:  emp.ID,
		EntryType:   attendance.EntryType(req.EntryType),
		Timestamp:   req.At,
		SnapshotURL: req.SnapshotURL,
	})
	if err != nil {
		s.cooldown.release(key, reservedAt)
		if errors.Is(err, attendance.ErrEmployeeNotFound) {
			return attendance.RecordResponse{}, err
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to record attendance: %w", err)
	}

	slog.Info("Attendance recorded", "record_id", record.ID, "employee_id", emp.ID, "entry_type", record.EntryType)
	return s.toResponse(record), nil
}

// ListRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListRecords(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordResponse{}, err
	}

	query := attendance.RecordQuery{
		EmployeeID: filter.EmployeeID,
		Limit:      filter.Limit,
		Offset:     (filter.Page - 1) * filter.Limit,
	}
	if filter.EntryType != nil {
		entryType := attendance.EntryType(*filter.EntryType)
		query.EntryType = &entryType
	}
	if filter.DateFrom != nil {
		from, err := worktime.ParseDate(*filter.DateFrom, s.loc)
		if err != nil {
			return attendance.ListRecordResponse{}, err
		}
		query.From = &from
	}
	if filter.DateTo != nil {
		to, err := worktime.ParseDate(*filter.DateTo, s.loc)
		if err != nil {
			return attendance.ListRecordResponse{}, err
		}
		// Inclusive end date
		to = to.AddDate(0, 0, 1)
		query.To = &to
	}

	records, total, err := s.attendanceRepo.List(ctx, query)
	if err != nil {
		return attendance.ListRecordResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	resp := attendance.ListRecordResponse{
		TotalCount:  total,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		CurrentPage: filter.Page,
		PageSize:    filter.Limit,
		Records:     make([]attendance.RecordResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Records = append(resp.Records, s.toResponse(r))
	}
	return resp, nil
}

// toResponse renders the timestamp in the configured zone.
func (s *AttendanceServiceImpl) toResponse(r attendance.Record) attendance.RecordResponse {
	r.Timestamp = r.Timestamp.In(s.loc)
	return attendance.ToResponse(r)
}

// GetRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetRecord(ctx context.Context, id string) (attendance.RecordResponse, error) {
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return s.toResponse(record), nil
}

// DeleteRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteRecord(ctx context.Context, id string) error {
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Attendance record deleted", "record_id", id)
	return nil
}

// UploadSnapshot implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UploadSnapshot(ctx context.Context, req attendance.UploadSnapshotRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	record, err := s.attendanceRepo.GetByID(ctx, req.RecordID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	url, err := s.fileService.UploadSnapshot(ctx, record.ID, record.Timestamp.In(s.loc), req.File)
	if err != nil {
		if errors.Is(err, file.ErrUnsupportedImage) {
			return attendance.RecordResponse{}, attendance.ErrInvalidSnapshot
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to store snapshot: %w", err)
	}

	if err := s.attendanceRepo.UpdateSnapshotURL(ctx, record.ID, url); err != nil {
		return attendance.RecordResponse{}, err
	}

	record.SnapshotURL = &url
	return s.toResponse(record), nil
}
