package validator_test

import (
	"strings"
	"testing"

	"sea/pkg/validator"
)

type contactForm struct {
	Name  string `validate:"notblank"`
	Email string `validate:"omitempty,email"`
}

type statsForm struct {
	Minutes int `validate:"minutes"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	if err := validator.ValidateStruct(contactForm{Name: "Alice", Email: "a@x.com"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := validator.ValidateStruct(contactForm{Name: "Alice"}); err != nil {
		t.Fatalf("empty optional email must pass: %v", err)
	}

	err := validator.ValidateStruct(contactForm{Name: "   ", Email: "nope"})
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := validator.Describe(err)
	if !strings.Contains(msg, "name") || !strings.Contains(msg, "email") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestMinutesTag(t *testing.T) {
	t.Parallel()

	for _, m := range []int{1, 60, 1440} {
		if err := validator.ValidateStruct(statsForm{Minutes: m}); err != nil {
			t.Fatalf("minutes=%d: unexpected err: %v", m, err)
		}
	}
	for _, m := range []int{0, -5, 1441} {
		if err := validator.ValidateStruct(statsForm{Minutes: m}); err == nil {
			t.Fatalf("minutes=%d: expected error", m)
		}
	}
}
