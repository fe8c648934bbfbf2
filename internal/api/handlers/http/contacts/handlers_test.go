package contacts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"

	"sea/internal/api/handlers/http/contacts"
	mock_contacts "sea/internal/api/handlers/http/contacts/mocks"
	"sea/internal/domain"
	"sea/internal/middleware"
	"sea/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func addContact(h *contacts.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/add_contact", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	middleware.BindJSON(h.AddContact).ServeHTTP(rr, req)
	return rr
}

func TestAddContact_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_contacts.NewMockContactService(ctrl)
	svc.EXPECT().
		Create(gomock.Any(), domain.CreateContactRequest{Name: "Alice", Email: "a@x.com"}).
		Return(&domain.Contact{ID: 1, Name: "Alice", Email: "a@x.com"}, nil)

	rr := addContact(contacts.NewHandler(newTestLogger(), svc), `{"name":"Alice","email":"a@x.com"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}

	var got struct {
		Success bool           `json:"success"`
		Contact domain.Contact `json:"contact"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !got.Success || got.Contact.ID != 1 {
		t.Fatalf("unexpected response %+v", got)
	}
}

func TestAddContact_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"name required", e.ErrNameRequired, http.StatusBadRequest, "Name required"},
		{"bad phone", errors.Join(e.ErrInvalidInput, errors.New("phone")), http.StatusBadRequest, ""},
		{"storage", e.WrapError(context.Background(), "op", errors.New("locked")), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := mock_contacts.NewMockContactService(ctrl)
			svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, tc.err)

			rr := addContact(contacts.NewHandler(newTestLogger(), svc), `{"name":""}`)
			if rr.Code != tc.code {
				t.Fatalf("expected %d got %d", tc.code, rr.Code)
			}
			var got map[string]any
			_ = json.Unmarshal(rr.Body.Bytes(), &got)
			if got["success"] != false {
				t.Fatalf("unexpected body %v", got)
			}
			if tc.message != "" && got["message"] != tc.message {
				t.Fatalf("expected message %q, got %v", tc.message, got["message"])
			}
		})
	}
}

func TestListContacts(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_contacts.NewMockContactService(ctrl)
	svc.EXPECT().List(gomock.Any()).Return([]domain.Contact{{ID: 2, Name: "Bob"}, {ID: 1, Name: "Alice", Email: "a@x.com"}}, nil)

	rr := httptest.NewRecorder()
	contacts.NewHandler(newTestLogger(), svc).ListContacts(rr, httptest.NewRequest(http.MethodGet, "/get_contacts", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var got []domain.Contact
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("expected a json array: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Bob" || got[1].Email != "a@x.com" {
		t.Fatalf("unexpected contacts %+v", got)
	}

	var raw []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"email", "phone"} {
		v, ok := raw[0][key]
		if !ok || v != nil {
			t.Fatalf("expected %q to be present and null, got %v (present=%v)", key, v, ok)
		}
	}
	if raw[1]["email"] != "a@x.com" {
		t.Fatalf("unexpected email %v", raw[1]["email"])
	}
}
