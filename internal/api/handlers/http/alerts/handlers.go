package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"sea/internal/domain"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type AlertDispatcher interface {
	Dispatch(ctx context.Context, req domain.SendAlertRequest) (*domain.DispatchResult, error)
	List(ctx context.Context) ([]domain.Alert, error)
}

type StatsGetter interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.Stats, error)
}

type Handler struct {
	logger     *slog.Logger
	Dispatcher AlertDispatcher
	Stats      StatsGetter
}

func NewHandler(logger *slog.Logger, dispatcher AlertDispatcher, stats StatsGetter) *Handler {
	return &Handler{
		logger:     logger,
		Dispatcher: dispatcher,
		Stats:      stats,
	}
}

// SendAlert is mounted behind middleware.BindJSON.
func (h *Handler) SendAlert(w http.ResponseWriter, r *http.Request, req domain.SendAlertRequest) {
	l := h.log(r)
	l.Debug("SendAlert", slog.String("remote", r.RemoteAddr))

	res, err := h.Dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, domain.SendAlertResponse{
		Success:         true,
		Message:         fmt.Sprintf("Alert sent to %d contacts", len(res.Results)),
		AlertID:         res.Alert.ID,
		Alert:           res.Alert,
		DeliveryResults: res.Results,
		Delivered:       res.Delivered(),
		Failed:          res.Failed(),
	})
}

func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	alerts, err := h.Dispatcher.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Debug("alerts listed", slog.Int("count", len(alerts)))
	h.writeJSON(w, http.StatusOK, domain.ListAlertsResponse{Alerts: alerts})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("GetStats", slog.String("query", r.URL.RawQuery))

	var req domain.StatsRequest
	if raw := r.URL.Query().Get("minutes"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil {
			l.Warn("invalid minutes", slog.String("minutes", raw))
			h.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "minutes must be an integer"})
			return
		}
		req.Minutes = m
	}

	stats, err := h.Stats.GetStats(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}
