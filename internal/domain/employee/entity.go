package employee

import (
	"time"
)

const DefaultJobClass = "Employee"

type Employee struct {
	ID        string
	Name      string
	Email     *string
	Phone     *string
	JobClass  string
	HireDate  *time.Time
	PhotoURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPhoto reports whether a face photo is on file.
func (e *Employee) HasPhoto() bool {
	return e.PhotoURL != nil && *e.PhotoURL != ""
}
