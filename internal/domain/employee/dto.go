package employee

import (
	"io"
	"strings"

	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
)

const (
	maxNameLength  = 255
	MaxPhotoSize   = 10 << 20
	MaxImportSize  = 5 << 20
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type CreateEmployeeRequest struct {
	Name     string  `json:"name"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	JobClass *string `json:"job_class,omitempty"`
	HireDate *string `json:"hire_date,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > maxNameLength {
		errs.Add("name", "name must not exceed 255 characters")
	}

	r.Email = blankToNil(r.Email)
	r.Phone = blankToNil(r.Phone)
	r.JobClass = blankToNil(r.JobClass)
	r.HireDate = blankToNil(r.HireDate)
	validateOptional(&errs, r.Email, r.Phone, r.HireDate)

	return errs.Err()
}

type UpdateEmployeeRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	JobClass *string `json:"job_class,omitempty"`
	HireDate *string `json:"hire_date,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if name == "" {
			errs.Add("name", "name must not be empty")
		} else if len(name) > maxNameLength {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}

	// Blank optional fields are cleared rather than rejected.
	validateOptional(&errs, blankToNil(r.Email), blankToNil(r.Phone), blankToNil(r.HireDate))
	if r.JobClass != nil && validator.IsEmpty(*r.JobClass) {
		errs.Add("job_class", "job_class must not be empty")
	}

	return errs.Err()
}

func validateOptional(errs *validator.ValidationErrors, email, phone, hireDate *string) {
	if email != nil && !validator.IsValidEmail(*email) {
		errs.Add("email", "email must be a valid email address")
	}
	if phone != nil && !validator.IsValidPhoneNumber(*phone) {
		errs.Add("phone", "phone must contain 6-15 digits")
	}
	if hireDate != nil {
		if _, ok := validator.IsValidDate(*hireDate); !ok {
			errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
		}
	}
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type EmployeeFilter struct {
	Search    *string `json:"search,omitempty"`
	JobClass  *string `json:"job_class,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
	SortBy    string  `json:"sort_by"`
	SortOrder string  `json:"sort_order"`
}

// Validate fills paging defaults and rejects unknown sort keys.
func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPerPage
	}
	if f.Limit > MaxPerPage {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.SortBy == "" {
		f.SortBy = "created_at"
	}
	if !validator.IsInSlice(f.SortBy, []string{"name", "created_at", "job_class", "hire_date"}) {
		errs.Add("sort_by", "sort_by must be one of name, created_at, job_class, hire_date")
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs.Add("sort_order", "sort_order must be asc or desc")
	}

	return errs.Err()
}

type SearchEmployeeRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (r *SearchEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Query = strings.TrimSpace(r.Query)
	if validator.IsEmpty(r.Query) {
		errs.Add("q", "search query is required")
	}
	if r.Limit <= 0 {
		r.Limit = 10
	}
	if r.Limit > 50 {
		r.Limit = 50
	}

	return errs.Err()
}

type UploadPhotoRequest struct {
	EmployeeID  string
	File        io.Reader
	Filename    string
	Size        int64
	ContentType string
}

func (r *UploadPhotoRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.File == nil {
		errs.Add("photo", "photo is required")
	} else if r.Size > MaxPhotoSize {
		errs.Add("photo", "photo size must not exceed 10MB")
	}

	return errs.Err()
}

type ImportEmployeesRequest struct {
	File     io.Reader
	Filename string
	Size     int64
}

func (r *ImportEmployeesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.File == nil {
		errs.Add("file", "file is required")
	} else if r.Size > MaxImportSize {
		errs.Add("file", "file size must not exceed 5MB")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	JobClass  string  `json:"job_class"`
	HireDate  *string `json:"hire_date"`
	PhotoURL  *string `json:"photo_url"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	var hireDate *string
	if e.HireDate != nil {
		s := e.HireDate.Format("2006-01-02")
		hireDate = &s
	}
	return EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		JobClass:  e.JobClass,
		HireDate:  hireDate,
		PhotoURL:  e.PhotoURL,
		CreatedAt: e.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

type ListEmployeeResponse struct {
	TotalCount  int64              `json:"total_count"`
	TotalPages  int                `json:"total_pages"`
	CurrentPage int                `json:"current_page"`
	PageSize    int                `json:"page_size"`
	Employees   []EmployeeResponse `json:"employees"`
}

type SearchEmployeeResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	JobClass string  `json:"job_class"`
	PhotoURL *string `json:"photo_url"`
}

type DeletePhotoResponse struct {
	Deleted bool `json:"deleted"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

type ImportEmployeesResponse struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors"`
}
