package handler

import (
	"net/http"

	"github.com/templui/objectives/internal/ctxkeys"
	"github.com/templui/objectives/internal/service"
)

type MilestoneHandler struct {
	milestoneService *service.MilestoneService
}

func NewMilestoneHandler(milestoneService *service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{
		milestoneService: milestoneService,
	}
}

type appendMilestoneRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type bulkSeedRequest struct {
	Items []service.SeedItem `json:"items"`
}

func (h *MilestoneHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	milestones, err := h.milestoneService.List(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "get milestones")
		return
	}

	writeJSON(w, http.StatusOK, milestones)
}

func (h *MilestoneHandler) Append(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req appendMilestoneRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "decode milestone")
		return
	}

	milestone, err := h.milestoneService.Append(user.ID, r.PathValue("id"), req.Title, req.Description)
	if err != nil {
		writeServiceError(w, r, err, "append milestone")
		return
	}

	writeJSON(w, http.StatusCreated, milestone)
}

// BulkSeed fills an empty checklist; a non-empty one answers 409.
func (h *MilestoneHandler) BulkSeed(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req bulkSeedRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "decode milestones")
		return
	}

	milestones, err := h.milestoneService.BulkSeed(user.ID, r.PathValue("id"), req.Items)
	if err != nil {
		writeServiceError(w, r, err, "seed milestones")
		return
	}

	writeJSON(w, http.StatusCreated, milestones)
}

func (h *MilestoneHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	milestone, err := h.milestoneService.Toggle(user.ID, r.PathValue("id"), r.PathValue("milestoneID"))
	if err != nil {
		writeServiceError(w, r, err, "toggle milestone")
		return
	}

	writeJSON(w, http.StatusOK, milestone)
}

func (h *MilestoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.milestoneService.Remove(user.ID, r.PathValue("id"), r.PathValue("milestoneID"))
	if err != nil {
		writeServiceError(w, r, err, "delete milestone")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
