package contacts

import (
	"context"
	"log/slog"
	"net/http"

	"sea/internal/domain"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type ContactService interface {
	Create(ctx context.Context, req domain.CreateContactRequest) (*domain.Contact, error)
	List(ctx context.Context) ([]domain.Contact, error)
}

type Handler struct {
	logger   *slog.Logger
	Contacts ContactService
}

func NewHandler(logger *slog.Logger, contacts ContactService) *Handler {
	return &Handler{logger: logger, Contacts: contacts}
}

// AddContact is mounted behind middleware.BindJSON.
func (h *Handler) AddContact(w http.ResponseWriter, r *http.Request, req domain.CreateContactRequest) {
	l := h.log(r)
	l.Debug("AddContact", slog.String("remote", r.RemoteAddr))

	c, err := h.Contacts.Create(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "contact": c})
}

func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	contacts, err := h.Contacts.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Debug("contacts listed", slog.Int("count", len(contacts)))
	h.writeJSON(w, http.StatusOK, contacts)
}
