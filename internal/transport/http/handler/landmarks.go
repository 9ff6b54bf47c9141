package handler

import (
	"context"
	"net/http"

	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

// LandmarkLister reads the landmark registry.
type LandmarkLister interface {
	Scan(ctx context.Context) ([]domain.Landmark, error)
}

// LandmarkHandler exposes the read-only landmark registry.
type LandmarkHandler struct {
	repo LandmarkLister
}

func NewLandmarkHandler(repo LandmarkLister) *LandmarkHandler {
	return &LandmarkHandler{repo: repo}
}

func (h *LandmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	landmarks, err := h.repo.Scan(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(landmarks) == 0 {
		landmarks = domain.BuiltinLandmarks()
	}
	writeJSON(w, http.StatusOK, LandmarksEnvelope{Data: landmarks})
}
