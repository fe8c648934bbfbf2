package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sea/internal/domain"
	"sea/pkg/e"
	"sea/pkg/validator"

	"github.com/nyaruka/phonenumbers"
)

const DefaultRegion = "IN"

type ContactService struct {
	store  ContactStore
	region string
	logger *slog.Logger
}

func NewContactService(store ContactStore, region string, logger *slog.Logger) *ContactService {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}
	return &ContactService{store: store, region: region, logger: logger}
}

func (s *ContactService) Create(ctx context.Context, req domain.CreateContactRequest) (*domain.Contact, error) {
	const op = "service.ContactService.Create"
	l := withRequestID(ctx, s.logger)

	req.Trim()
	if req.Name == "" {
		return nil, e.ErrNameRequired
	}
	if err := validator.ValidateStruct(req); err != nil {
		l.Warn("contact rejected", slog.String("reason", validator.Describe(err)))
		return nil, fmt.Errorf("%w: %s", e.ErrInvalidInput, validator.Describe(err))
	}

	phone := ""
	if req.Phone != "" {
		var err error
		if phone, err = NormalizePhone(req.Phone, s.region); err != nil {
			l.Warn("contact rejected", slog.String("reason", err.Error()))
			return nil, err
		}
	}

	c := &domain.Contact{
		Name:  req.Name,
		Email: req.Email,
		Phone: phone,
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return nil, e.Wrap(op, err)
	}

	l.Info("contact added",
		slog.Int64("id", c.ID),
		slog.Bool("email", c.HasEmail()),
		slog.Bool("phone", c.HasPhone()),
	)
	return c, nil
}

func (s *ContactService) List(ctx context.Context) ([]domain.Contact, error) {
	const op = "service.ContactService.List"

	contacts, err := s.store.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return contacts, nil
}

// NormalizePhone returns raw in E.164 form. Numbers without a country code
// are read in the given region.
func NormalizePhone(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: phone %q: %v", e.ErrInvalidInput, raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: phone %q is not a valid number", e.ErrInvalidInput, raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
