package recognition

import "github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"

// AttendanceEvent is an attendance notification relayed by the recognizer.
type AttendanceEvent struct {
	EmployeeID   string `json:"employee_id,omitempty"`
	EmployeeName string `json:"employee_name"`
	EntryType    string `json:"entry_type"`
	Timestamp    string `json:"timestamp"`
}

type StatusResponse struct {
	Connected        bool              `json:"connected"`
	RegisteredFaces  int               `json:"registered_faces"`
	ConnectedClients int               `json:"connected_clients"`
	UpdatedAt        *string           `json:"updated_at"`
	RecentEvents     []AttendanceEvent `json:"recent_events"`
}

type ReportStatusRequest struct {
	RegisteredFaces  int `json:"registered_faces"`
	ConnectedClients int `json:"connected_clients"`
}

func (r *ReportStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.RegisteredFaces < 0 {
		errs.Add("registered_faces", "registered_faces must not be negative")
	}
	if r.ConnectedClients < 0 {
		errs.Add("connected_clients", "connected_clients must not be negative")
	}

	return errs.Err()
}
