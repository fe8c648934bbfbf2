package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"sea/internal/domain"
	"sea/internal/service"
	mock_service "sea/internal/service/mocks"
	"sea/pkg/e"
)

func TestContactService_Create_NormalizesFields(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mock_service.NewMockContactStore(ctrl)
	store.EXPECT().
		Insert(gomock.Any(), &domain.Contact{Name: "Alice", Email: "a@x.com", Phone: "+16502530000"}).
		DoAndReturn(func(_ context.Context, c *domain.Contact) error {
			c.ID = 11
			return nil
		})

	svc := service.NewContactService(store, "us", discardLogger())

	c, err := svc.Create(context.Background(), domain.CreateContactRequest{
		Name:  "  Alice ",
		Email: " a@x.com ",
		Phone: "(650) 253-0000",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.ID != 11 || c.Phone != "+16502530000" {
		t.Fatalf("unexpected contact %+v", c)
	}
}

func TestContactService_Create_OptionalFieldsStayEmpty(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mock_service.NewMockContactStore(ctrl)
	store.EXPECT().Insert(gomock.Any(), &domain.Contact{Name: "Bob"}).Return(nil)

	svc := service.NewContactService(store, "", discardLogger())

	c, err := svc.Create(context.Background(), domain.CreateContactRequest{Name: "Bob"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.HasEmail() || c.HasPhone() {
		t.Fatalf("expected no channels, got %+v", c)
	}
}

func TestContactService_Create_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		req  domain.CreateContactRequest
		want error
	}{
		{"blank name", domain.CreateContactRequest{Name: "   ", Email: "a@x.com"}, e.ErrNameRequired},
		{"bad email", domain.CreateContactRequest{Name: "Alice", Email: "not-an-email"}, e.ErrInvalidInput},
		{"bad phone", domain.CreateContactRequest{Name: "Alice", Phone: "abc"}, e.ErrInvalidInput},
		{"short phone", domain.CreateContactRequest{Name: "Alice", Phone: "12"}, e.ErrInvalidInput},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mock_service.NewMockContactStore(ctrl)
			store.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)

			svc := service.NewContactService(store, "US", discardLogger())

			_, err := svc.Create(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestContactService_StorageErrorPropagates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := e.WrapError(context.Background(), "op", errors.New("boom"))

	store := mock_service.NewMockContactStore(ctrl)
	store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(boom)
	store.EXPECT().List(gomock.Any()).Return(nil, boom)

	svc := service.NewContactService(store, "US", discardLogger())

	if _, err := svc.Create(context.Background(), domain.CreateContactRequest{Name: "Alice"}); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if _, err := svc.List(context.Background()); !e.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	got, err := service.NormalizePhone("+44 20 7031 3000", "US")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "+442070313000" {
		t.Fatalf("unexpected number %q", got)
	}

	if _, err := service.NormalizePhone("", "US"); err == nil {
		t.Fatalf("empty number must fail")
	}
}
