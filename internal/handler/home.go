package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/objectives/internal/model"
)

type HomeHandler struct {
	db      *sqlx.DB
	appName string
}

func NewHomeHandler(db *sqlx.DB, appName string) *HomeHandler {
	return &HomeHandler{
		db:      db,
		appName: appName,
	}
}

type indexResponse struct {
	Name       string           `json:"name"`
	Currencies []model.Currency `json:"currencies"`
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, indexResponse{
		Name:       h.appName,
		Currencies: model.Currencies,
	})
}

// Health reports whether the database answers.
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.db.PingContext(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}
