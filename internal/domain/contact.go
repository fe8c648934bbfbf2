package domain

import (
	"encoding/json"
	"strings"
	"time"
)

type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// MarshalJSON renders absent email or phone as null rather than "".
func (c Contact) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Email     *string   `json:"email"`
		Phone     *string   `json:"phone"`
		CreatedAt time.Time `json:"created_at"`
	}{
		ID:        c.ID,
		Name:      c.Name,
		Email:     nullable(c.Email),
		Phone:     nullable(c.Phone),
		CreatedAt: c.CreatedAt,
	})
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func (c Contact) HasEmail() bool { return strings.TrimSpace(c.Email) != "" }
func (c Contact) HasPhone() bool { return strings.TrimSpace(c.Phone) != "" }

type CreateContactRequest struct {
	Name  string `json:"name" validate:"notblank,max=200"`
	Email string `json:"email" validate:"omitempty,email,max=254"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

func (r *CreateContactRequest) Trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}
