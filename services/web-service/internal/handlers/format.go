package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/barberpro/barberweb/services/web-service/internal/format"
)

type formatRequest struct {
	Value string `json:"value"`
}

type phoneResponse struct {
	Formatted string `json:"formatted"`
	Digits    string `json:"digits"`
	Valid     bool   `json:"valid"`
}

type priceResponse struct {
	Formatted string `json:"formatted"`
	Cents     int64  `json:"cents"`
}

// FormatPhone backs the live phone mask on form inputs.
func (h *Handler) FormatPhone(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	writeJSON(w, phoneResponse{
		Formatted: format.Phone(req.Value),
		Digits:    format.PhoneDigits(req.Value),
		Valid:     format.ValidPhone(req.Value),
	})
}

// FormatPrice backs the live currency mask: typed digits are cents.
func (h *Handler) FormatPrice(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	writeJSON(w, priceResponse{
		Formatted: format.MaskBRL(req.Value),
		Cents:     format.ParseBRLCents(req.Value),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
