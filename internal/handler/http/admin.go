package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/admin"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AdminHandler interface {
	ListAdmins(w http.ResponseWriter, r *http.Request)
	CreateAdmin(w http.ResponseWriter, r *http.Request)
	DeleteAdmin(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	adminService admin.AdminService
}

func NewAdminHandler(adminService admin.AdminService) AdminHandler {
	return &adminHandlerImpl{adminService: adminService}
}

// ListAdmins implements AdminHandler
func (h *adminHandlerImpl) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.adminService.ListAdmins(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, admins)
}

// CreateAdmin implements AdminHandler
func (h *adminHandlerImpl) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req admin.CreateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.adminService.CreateAdmin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Admin created", "admin_id", created.ID, "email", created.Email)
	response.Created(w, "Admin created successfully", created)
}

// DeleteAdmin implements AdminHandler
func (h *adminHandlerImpl) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.adminService.DeleteAdmin(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Admin deleted", "admin_id", id)
	response.SuccessWithMessage(w, "Admin deleted successfully", nil)
}

// Me implements AdminHandler
func (h *adminHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	current, err := h.adminService.GetCurrentAdmin(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, current)
}
