package system_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"

	"sea/internal/api/handlers/http/system"
	mock_system "sea/internal/api/handlers/http/system/mocks"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSystemHealth(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mock_system.NewMockPinger(ctrl)
	store.EXPECT().Ping(gomock.Any()).Return(nil)

	h := system.NewHandler(newTestLogger(), map[string]system.Pinger{"store": store})
	rr := httptest.NewRecorder()
	h.SystemHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var got map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got["status"] != "ok" || got["timestamp"] == "" {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestSystemHealth_StoreDown(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mock_system.NewMockPinger(ctrl)
	store.EXPECT().Ping(gomock.Any()).Return(errors.New("database is closed"))

	h := system.NewHandler(newTestLogger(), map[string]system.Pinger{"store": store})
	rr := httptest.NewRecorder()
	h.SystemHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte(`"status":"error"`)) {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}
