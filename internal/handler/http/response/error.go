package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/admin"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/recognition"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrInvalidOAuthState):
		BadRequest(w, "Invalid OAuth state", nil)
	case errors.Is(err, auth.ErrOAuthNotConfigured):
		NotFound(w, "Google sign-in is not configured")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Email not verified")
	case errors.Is(err, auth.ErrNotAnAdmin), errors.Is(err, admin.ErrNotAdmin):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// Admin domain errors
	case errors.Is(err, admin.ErrAdminNotFound):
		NotFound(w, "Admin not found")
	case errors.Is(err, admin.ErrAdminEmailExists):
		Conflict(w, "An admin with this email already exists")
	case errors.Is(err, admin.ErrCannotDeleteSelf):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, attendance.ErrEmployeeNotFound),
		errors.Is(err, report.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNameExists):
		Conflict(w, "An employee with this name already exists")
	case errors.Is(err, employee.ErrPhotoNotFound):
		NotFound(w, "Employee has no photo")
	case errors.Is(err, employee.ErrInvalidImage),
		errors.Is(err, employee.ErrUnsupportedImport),
		errors.Is(err, employee.ErrEmptyImport),
		errors.Is(err, employee.ErrMissingNameColumn):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrCooldownActive):
		TooManyRequests(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidSnapshot):
		BadRequest(w, err.Error(), nil)

	// Report domain errors
	case errors.Is(err, report.ErrInvalidExportFormat),
		errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, report.ErrDateRangeTooLong):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, settings.ErrSettingNotFound):
		NotFound(w, "Setting not found")

	// Recognition domain errors
	case errors.Is(err, recognition.ErrRecognizerUnavailable):
		ServiceUnavailable(w, err.Error())
	case errors.Is(err, recognition.ErrInvalidRecognizerKey):
		Unauthorized(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
