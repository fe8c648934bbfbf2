package tracking

import (
	"context"
	"log/slog"
	"net/http"

	"sea/internal/domain"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type TrackingService interface {
	UpdateLocation(ctx context.Context, req domain.UpdateLocationRequest) (*domain.TrackingPoint, error)
	Latest(ctx context.Context) (*domain.TrackingPoint, error)
	History(ctx context.Context) ([]domain.TrackingPoint, error)
}

type Handler struct {
	logger   *slog.Logger
	Tracking TrackingService
}

func NewHandler(logger *slog.Logger, tracking TrackingService) *Handler {
	return &Handler{logger: logger, Tracking: tracking}
}

// UpdateLocation is mounted behind middleware.BindJSON.
func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request, req domain.UpdateLocationRequest) {
	p, err := h.Tracking.UpdateLocation(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "tracking": p})
}

func (h *Handler) LiveLocation(w http.ResponseWriter, r *http.Request) {
	p, err := h.Tracking.Latest(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "location": p})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	points, err := h.Tracking.History(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Debug("tracking history listed", slog.Int("count", len(points)))
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "locations": points})
}
