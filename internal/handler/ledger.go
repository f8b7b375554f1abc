package handler

import (
	"net/http"

	"github.com/templui/objectives/internal/ctxkeys"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/service"
)

type LedgerHandler struct {
	ledgerService *service.LedgerService
}

func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entries, err := h.ledgerService.Entries(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "get entries")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *LedgerHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.EntryInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeServiceError(w, r, err, "decode entry")
		return
	}

	entry, err := h.ledgerService.Record(user.ID, r.PathValue("id"), input)
	if err != nil {
		writeServiceError(w, r, err, "record entry")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// Categories lists the suggested entry categories.
func (h *LedgerHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Categories)
}
