package handler

import (
	"encoding/json"
	"net/http"

	"github.com/weareasocialyazilim/travelmatch/internal/application/duplicate"
	"github.com/weareasocialyazilim/travelmatch/internal/application/verification"
	"github.com/weareasocialyazilim/travelmatch/internal/pkg/validate"
)

// ProofHandler handles proof verification and duplicate-check endpoints.
type ProofHandler struct {
	verifySvc verification.Service
	dupSvc    duplicate.Service
}

func NewProofHandler(verifySvc verification.Service, dupSvc duplicate.Service) *ProofHandler {
	return &ProofHandler{verifySvc: verifySvc, dupSvc: dupSvc}
}

func (h *ProofHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verification.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.verifySvc.Verify(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ProofHandler) CheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var req duplicate.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.dupSvc.Check(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
