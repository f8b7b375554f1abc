package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/objectives/internal/ctxkeys"
	"github.com/templui/objectives/internal/service"
)

// AdminHandler serves /api/admin. Routes are wrapped in RequireAdmin.
type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

type setRoleRequest struct {
	Role string `json:"role"`
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers()
	if err != nil {
		writeServiceError(w, r, err, "list users")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input service.NewUser
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeServiceError(w, r, err, "decode user")
		return
	}

	created, err := h.adminService.CreateUser(input)
	if err != nil {
		writeServiceError(w, r, err, "create user")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "decode role")
		return
	}

	err = h.adminService.SetRole(r.PathValue("id"), req.Role)
	if err != nil {
		writeServiceError(w, r, err, "set role")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req setPasswordRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "decode password")
		return
	}

	err = h.adminService.UpdatePassword(r.PathValue("id"), req.Password)
	if err != nil {
		writeServiceError(w, r, err, "update password")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())
	userID := r.PathValue("id")

	if admin.ID == userID {
		writeError(w, http.StatusUnprocessableEntity, "admins cannot delete their own account")
		return
	}

	err := h.adminService.DeleteUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "delete user")
		return
	}

	slog.Info("user deleted by admin", "admin_id", admin.ID, "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	err := h.adminService.DeleteGoal(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "delete goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
