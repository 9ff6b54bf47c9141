package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/weareasocialyazilim/travelmatch/internal/application/verification"
	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

// VerificationHandler serves the per-user verification audit trail.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	limit := int64(0)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records, err := h.svc.History(r.Context(), userID, int32(limit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []domain.VerificationRecord{}
	}
	writeJSON(w, http.StatusOK, HistoryEnvelope{UserID: userID, Data: records})
}
