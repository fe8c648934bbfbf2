package tracking_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"

	"sea/internal/api/handlers/http/tracking"
	mock_tracking "sea/internal/api/handlers/http/tracking/mocks"
	"sea/internal/domain"
	"sea/internal/middleware"
	"sea/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	return out
}

func TestUpdateLocation_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_tracking.NewMockTrackingService(ctrl)
	svc.EXPECT().
		UpdateLocation(gomock.Any(), domain.UpdateLocationRequest{Latitude: "12.9716", Longitude: "77.5946"}).
		Return(&domain.TrackingPoint{ID: 1, Latitude: "12.971600", Longitude: "77.594600"}, nil)

	h := tracking.NewHandler(newTestLogger(), svc)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/update_location", bytes.NewBufferString(`{"latitude":12.9716,"longitude":77.5946}`))
	middleware.BindJSON(h.UpdateLocation).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	got := decode(t, rr)
	p := got["tracking"].(map[string]any)
	if got["success"] != true || p["latitude"] != "12.971600" {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestUpdateLocation_Missing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_tracking.NewMockTrackingService(ctrl)
	svc.EXPECT().UpdateLocation(gomock.Any(), gomock.Any()).Return(nil, e.ErrMissingLocation)

	h := tracking.NewHandler(newTestLogger(), svc)
	rr := httptest.NewRecorder()
	middleware.BindJSON(h.UpdateLocation).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/update_location", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	if got := decode(t, rr); got["message"] != "Missing coordinates." {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestLiveLocation_NoneYet(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_tracking.NewMockTrackingService(ctrl)
	svc.EXPECT().Latest(gomock.Any()).Return(nil, nil)

	rr := httptest.NewRecorder()
	tracking.NewHandler(newTestLogger(), svc).LiveLocation(rr, httptest.NewRequest(http.MethodGet, "/get_live_location", nil))

	got := decode(t, rr)
	if v, ok := got["location"]; !ok || v != nil {
		t.Fatalf("expected location null, got %v", got)
	}
}

func TestHistory(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_tracking.NewMockTrackingService(ctrl)
	svc.EXPECT().History(gomock.Any()).Return([]domain.TrackingPoint{{ID: 2}, {ID: 1}}, nil)

	rr := httptest.NewRecorder()
	tracking.NewHandler(newTestLogger(), svc).History(rr, httptest.NewRequest(http.MethodGet, "/get_tracking_history", nil))

	got := decode(t, rr)
	if locs, ok := got["locations"].([]any); !ok || len(locs) != 2 {
		t.Fatalf("unexpected body %v", got)
	}
}
