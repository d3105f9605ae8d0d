package report

import "errors"

var (
	ErrInvalidExportFormat = errors.New("unsupported export format")
	ErrInvalidDateRange    = errors.New("end date must not be before start date")
	ErrDateRangeTooLong    = errors.New("date range must not exceed 366 days")
	ErrEmployeeNotFound    = errors.New("employee not found")
)
