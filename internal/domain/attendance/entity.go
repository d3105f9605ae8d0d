package attendance

import "time"

type EntryType string

const (
	EntryTypeEntry EntryType = "entry"
	EntryTypeExit  EntryType = "exit"
)

func (t EntryType) IsValid() bool {
	return t == EntryTypeEntry || t == EntryTypeExit
}

// Label is the capitalised form used in exports.
func (t EntryType) Label() string {
	if t == EntryTypeExit {
		return "Exit"
	}
	return "Entry"
}

// Record is a single recognition event.
type Record struct {
	ID          string
	EmployeeID  string
	EntryType   EntryType
	Timestamp   time.Time
	SnapshotURL *string
	CreatedAt   time.Time

	// Join
	EmployeeName string
	JobClass     string
}

// RecordQuery is the repository-level filter; bounds are half-open [From, To).
type RecordQuery struct {
	EmployeeID *string
	EntryType  *EntryType
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}
