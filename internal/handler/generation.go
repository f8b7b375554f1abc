package handler

import (
	"net/http"
	"strings"

	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/service/generation"
)

// GenerationHandler exposes the milestone generator directly. Nothing is
// stored; clients seed the result themselves.
type GenerationHandler struct {
	provider generation.Provider
}

func NewGenerationHandler(provider generation.Provider) *GenerationHandler {
	return &GenerationHandler{
		provider: provider,
	}
}

// Generate answers POST /api/milestones/generate with a JSON array of
// milestones. Any generation failure is a 500 with {"error": ...}.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generation.Request
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "decode generation request")
		return
	}

	req.ObjectiveName = strings.TrimSpace(req.ObjectiveName)
	if req.ObjectiveName == "" {
		writeError(w, http.StatusBadRequest, "objectiveName is required")
		return
	}
	req.Currency = model.ParseCurrency(req.Currency.String())

	milestones, err := h.provider.Generate(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "generate milestones")
		return
	}

	writeJSON(w, http.StatusOK, milestones)
}
