package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"golang.org/x/time/rate"

	"sea/pkg/e"
)

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	// provider-side pacing, messages per second; 0 disables it.
	// The wait counts against the caller's send deadline.
	RatePerSecond float64
}

func (c SMSConfig) configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type SMS struct {
	cfg     SMSConfig
	base    string
	api     messageCreator
	limiter *rate.Limiter
}

func NewSMS(cfg SMSConfig, mapsBaseURL string) *SMS {
	s := &SMS{cfg: cfg, base: mapsBaseURL, limiter: newPacer(cfg.RatePerSecond)}
	if cfg.configured() {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		s.api = client.Api
	}
	return s
}

func newPacer(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func (c *SMS) Kind() Kind { return KindSMS }

func (c *SMS) Send(ctx context.Context, msg Message) error {
	const op = "notify.SMS.Send"

	if !c.cfg.configured() || c.api == nil {
		return fmt.Errorf("%s: twilio: %w", op, e.ErrNotConfigured)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: pacing: %w", op, err)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(msg.Recipient)
	params.SetFrom(c.cfg.FromNumber)
	params.SetBody(Body(c.base, msg))

	if _, err := c.api.CreateMessage(params); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
