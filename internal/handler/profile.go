package handler

import (
	"net/http"

	"github.com/templui/objectives/internal/ctxkeys"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

type meResponse struct {
	User    *model.User    `json:"user"`
	Profile *model.Profile `json:"profile"`
}

// Me returns the caller as loaded by the auth middleware.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, meResponse{
		User:    ctxkeys.User(r.Context()),
		Profile: ctxkeys.Profile(r.Context()),
	})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var update service.ProfileUpdate
	err := decodeJSON(w, r, &update)
	if err != nil {
		writeServiceError(w, r, err, "decode profile update")
		return
	}

	profile, err := h.profileService.Update(user.ID, update)
	if err != nil {
		writeServiceError(w, r, err, "update profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type activeGoalRequest struct {
	GoalID *string `json:"goal_id"`
}

type activeGoalResponse struct {
	Goal *model.Goal `json:"goal"`
}

// ActiveGoal returns the selected goal, or {"goal": null}.
func (h *ProfileHandler) ActiveGoal(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.profileService.ActiveGoal(user.ID)
	if err != nil {
		writeServiceError(w, r, err, "load active goal")
		return
	}

	writeJSON(w, http.StatusOK, activeGoalResponse{Goal: goal})
}

// SetActiveGoal saves the selection; {"goal_id": null} clears it.
func (h *ProfileHandler) SetActiveGoal(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req activeGoalRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "decode active goal")
		return
	}

	err = h.profileService.SetActiveGoal(user.ID, req.GoalID)
	if err != nil {
		writeServiceError(w, r, err, "save active goal")
		return
	}

	h.ActiveGoal(w, r)
}
