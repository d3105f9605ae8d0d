package attendance

import (
	"io"
	"strings"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
)

const MaxSnapshotSize = 5 << 20

// RecordAttendanceRequest is posted by the recognizer or by an admin fixing a record.
type RecordAttendanceRequest struct {
	EmployeeID   *string `json:"employee_id,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	EntryType    string  `json:"entry_type"`
	Timestamp    *string `json:"timestamp,omitempty"`
	SnapshotURL  *string `json:"snapshot_url,omitempty"`

	// Location reads timestamps that carry no offset; UTC when nil
	Location *time.Location `json:"-"`

	// Parsed by Validate
	At time.Time `json:"-"`
}

func (r *RecordAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	hasID := r.EmployeeID != nil && !validator.IsEmpty(*r.EmployeeID)
	hasName := r.EmployeeName != nil && !validator.IsEmpty(*r.EmployeeName)
	if !hasID && !hasName {
		errs.Add("employee_id", "employee_id or employee_name is required")
	}
	if hasID && !validator.IsValidUUID(*r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if !hasID {
		r.EmployeeID = nil
	}
	if hasName {
		name := strings.TrimSpace(*r.EmployeeName)
		r.EmployeeName = &name
	} else {
		r.EmployeeName = nil
	}

	r.EntryType = strings.ToLower(strings.TrimSpace(r.EntryType))
	if r.EntryType == "" {
		r.EntryType = string(EntryTypeEntry)
	}
	if !EntryType(r.EntryType).IsValid() {
		errs.Add("entry_type", "entry_type must be entry or exit")
	}

	r.At = time.Now()
	if r.Timestamp != nil && !validator.IsEmpty(*r.Timestamp) {
		at, ok := validator.IsValidDateTime(strings.TrimSpace(*r.Timestamp), r.Location)
		if !ok {
			errs.Add("timestamp", "timestamp must be an ISO 8601 date-time such as 2025-03-04T09:00:00")
		} else {
			r.At = at
		}
	}

	return errs.Err()
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	EntryType  *string `json:"entry_type,omitempty"`
	DateFrom   *string `json:"date_from,omitempty"`
	DateTo     *string `json:"date_to,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		errs.Add("limit", "limit must not exceed 500")
	}
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.EntryType != nil && !EntryType(*f.EntryType).IsValid() {
		errs.Add("entry_type", "entry_type must be entry or exit")
	}

	var from, to time.Time
	var fromOK, toOK bool
	if f.DateFrom != nil {
		if from, fromOK = validator.IsValidDate(*f.DateFrom); !fromOK {
			errs.Add("date_from", "date_from must be in YYYY-MM-DD format")
		}
	}
	if f.DateTo != nil {
		if to, toOK = validator.IsValidDate(*f.DateTo); !toOK {
			errs.Add("date_to", "date_to must be in YYYY-MM-DD format")
		}
	}
	if fromOK && toOK && to.Before(from) {
		errs.Add("date_to", "date_to must not be before date_from")
	}

	return errs.Err()
}

type UploadSnapshotRequest struct {
	RecordID string
	File     io.Reader
	Filename string
	Size     int64
}

func (r *UploadSnapshotRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.RecordID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.File == nil {
		errs.Add("snapshot", "snapshot is required")
	} else if r.Size > MaxSnapshotSize {
		errs.Add("snapshot", "snapshot size must not exceed 5MB")
	}

	return errs.Err()
}

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	JobClass     string  `json:"job_class,omitempty"`
	EntryType    string  `json:"entry_type"`
	Timestamp    string  `json:"timestamp"`
	SnapshotURL  *string `json:"snapshot_url"`
}

func ToResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		JobClass:     r.JobClass,
		EntryType:    string(r.EntryType),
		Timestamp:    r.Timestamp.Format(time.RFC3339),
		SnapshotURL:  r.SnapshotURL,
	}
}

type ListRecordResponse struct {
	TotalCount  int64            `json:"total_count"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
	PageSize    int              `json:"page_size"`
	Records     []RecordResponse `json:"records"`
}
