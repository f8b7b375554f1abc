package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/objectives/internal/ctxkeys"
	"github.com/templui/objectives/internal/service"
)

type AccountHandler struct {
	userService *service.UserService
}

func NewAccountHandler(userService *service.UserService) *AccountHandler {
	return &AccountHandler{
		userService: userService,
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req changePasswordRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "decode password change")
		return
	}

	err = h.userService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeServiceError(w, r, err, "change password")
		return
	}

	slog.Info("password changed", "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}
