package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/objectives/internal/ctxkeys"
	"github.com/templui/objectives/internal/repository"
	"github.com/templui/objectives/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = repository.GoalSortRecent
	}

	goals, err := h.goalService.Goals(user.ID, sortBy)
	if err != nil {
		writeServiceError(w, r, err, "get goals")
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

// Create stores the goal and tries to generate its checklist. A generation
// failure still answers 201 with milestones_generated=false.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.GoalInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeServiceError(w, r, err, "decode goal")
		return
	}

	created, err := h.goalService.Create(r.Context(), user.ID, input)
	if err != nil {
		writeServiceError(w, r, err, "create goal")
		return
	}

	slog.Info("goal created", "user_id", user.ID, "goal_id", created.Goal.ID, "milestones_generated", created.MilestonesGenerated)
	writeJSON(w, http.StatusCreated, created)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "get goal")
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.GoalInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeServiceError(w, r, err, "decode goal")
		return
	}

	goal, err := h.goalService.Update(user.ID, r.PathValue("id"), input)
	if err != nil {
		writeServiceError(w, r, err, "update goal")
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	err := h.goalService.Delete(user.ID, goalID)
	if err != nil {
		writeServiceError(w, r, err, "delete goal")
		return
	}

	slog.Info("goal deleted", "user_id", user.ID, "goal_id", goalID)
	w.WriteHeader(http.StatusNoContent)
}

// Summary answers GET /api/goals/{id}/summary?currency=USD.
func (h *GoalHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	summary, err := h.goalService.Summary(user.ID, r.PathValue("id"), r.URL.Query().Get("currency"))
	if err != nil {
		writeServiceError(w, r, err, "build goal summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// RegenerateMilestones retries generation for a goal with an empty checklist.
func (h *GoalHandler) RegenerateMilestones(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	milestones, err := h.goalService.RegenerateMilestones(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "regenerate milestones")
		return
	}

	writeJSON(w, http.StatusCreated, milestones)
}
