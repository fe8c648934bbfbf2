package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"sea/pkg/e"
)

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c EmailConfig) configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != "" && c.From != ""
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Email struct {
	cfg    EmailConfig
	base   string
	dialer mailSender
}

func NewEmail(cfg EmailConfig, mapsBaseURL string) *Email {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Email{
		cfg:  cfg,
		base: mapsBaseURL,
		// gomail upgrades to STARTTLS when the server offers it.
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (c *Email) Kind() Kind { return KindEmail }

func (c *Email) Send(ctx context.Context, msg Message) error {
	const op = "notify.Email.Send"

	if !c.cfg.configured() {
		return fmt.Errorf("%s: smtp: %w", op, e.ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.cfg.From)
	m.SetHeader("To", msg.Recipient)
	m.SetHeader("Subject", "Emergency Alert")
	m.SetBody("text/plain", Body(c.base, msg))

	if err := c.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
