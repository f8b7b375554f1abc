package handler

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/templui/objectives/internal/service"
)

type RatesHandler struct {
	rateService *service.RateService
}

func NewRatesHandler(rateService *service.RateService) *RatesHandler {
	return &RatesHandler{
		rateService: rateService,
	}
}

type setRatesRequest struct {
	USD decimal.Decimal `json:"usd"`
	EUR decimal.Decimal `json:"eur"`
}

// Latest returns the authoritative snapshot.
func (h *RatesHandler) Latest(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.rateService.Latest()
	if err != nil {
		writeServiceError(w, r, err, "get exchange rates")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// Set stores factors entered by an admin.
func (h *RatesHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setRatesRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "decode exchange rates")
		return
	}

	snapshot, err := h.rateService.Set(req.USD, req.EUR)
	if err != nil {
		writeServiceError(w, r, err, "set exchange rates")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// Refresh pulls quotes now. The previous snapshot stays on failure.
func (h *RatesHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.rateService.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "exchange rate refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
