package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"gopkg.in/gomail.v2"

	"sea/pkg/e"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

var testMsg = Message{
	Recipient: "a@x.com",
	Latitude:  "37.774900",
	Longitude: "-122.419400",
	Timestamp: "2026-01-01T12:00:00Z",
}

type fakeMailer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeMailer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

type fakeTwilio struct {
	mu     sync.Mutex
	params []*openapi.CreateMessageParams
	err    error
}

func (f *fakeTwilio) CreateMessage(p *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, p)
	return &openapi.ApiV2010Message{}, f.err
}

func TestBody_EmbedsMapLink(t *testing.T) {
	body := Body("", testMsg)
	require.Contains(t, body, "https://www.google.com/maps?q=37.774900,-122.419400")
	require.Contains(t, body, testMsg.Timestamp)

	require.Equal(t, "https://maps.example/?q=1,2", MapsLink("https://maps.example/", "1", "2"))
}

func TestDemo_AlwaysSucceeds(t *testing.T) {
	email, sms := NewChannels(Config{DemoMode: true}, testLogger())
	require.Equal(t, KindEmail, email.Kind())
	require.Equal(t, KindSMS, sms.Kind())
	require.NoError(t, email.Send(context.Background(), testMsg))
	require.NoError(t, sms.Send(context.Background(), testMsg))
}

func TestEmail_NotConfigured(t *testing.T) {
	c := NewEmail(EmailConfig{Host: "smtp.example.com"}, "")
	err := c.Send(context.Background(), testMsg)
	require.ErrorIs(t, err, e.ErrNotConfigured)
}

func TestEmail_SendsMessage(t *testing.T) {
	mailer := &fakeMailer{}
	c := NewEmail(EmailConfig{Host: "smtp.example.com", Username: "u", Password: "p", From: "sea@example.com"}, "")
	c.dialer = mailer

	require.NoError(t, c.Send(context.Background(), testMsg))
	require.Len(t, mailer.sent, 1)
	require.Equal(t, []string{"a@x.com"}, mailer.sent[0].GetHeader("To"))
	require.Equal(t, []string{"Emergency Alert"}, mailer.sent[0].GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := mailer.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	require.True(t, strings.Contains(buf.String(), "37.774900,-122.419400"))
}

func TestEmail_TransportError(t *testing.T) {
	c := NewEmail(EmailConfig{Host: "h", Username: "u", Password: "p", From: "f@x.com"}, "")
	c.dialer = &fakeMailer{err: errors.New("connection refused")}
	require.Error(t, c.Send(context.Background(), testMsg))
}

func TestSMS_NotConfigured(t *testing.T) {
	c := NewSMS(SMSConfig{AccountSID: "AC123"}, "")
	require.ErrorIs(t, c.Send(context.Background(), testMsg), e.ErrNotConfigured)
}

func TestSMS_SendsMessage(t *testing.T) {
	api := &fakeTwilio{}
	c := NewSMS(SMSConfig{AccountSID: "AC123", AuthToken: "tok", FromNumber: "+15550000000"}, "")
	c.api = api

	msg := testMsg
	msg.Recipient = "+919876543210"
	require.NoError(t, c.Send(context.Background(), msg))
	require.Len(t, api.params, 1)
	require.Equal(t, "+919876543210", *api.params[0].To)
	require.Equal(t, "+15550000000", *api.params[0].From)
	require.Contains(t, *api.params[0].Body, "37.774900,-122.419400")
}

func TestSMS_ProviderError(t *testing.T) {
	c := NewSMS(SMSConfig{AccountSID: "AC123", AuthToken: "tok", FromNumber: "+1"}, "")
	c.api = &fakeTwilio{err: errors.New("HTTP 401")}
	require.Error(t, c.Send(context.Background(), testMsg))
}

func TestSMS_PacingHonoursContext(t *testing.T) {
	c := NewSMS(SMSConfig{AccountSID: "AC123", AuthToken: "tok", FromNumber: "+1", RatePerSecond: 0.001}, "")
	c.api = &fakeTwilio{}

	require.NoError(t, c.Send(context.Background(), testMsg))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, c.Send(ctx, testMsg))
}

func TestSMS_UnpacedFanOutReachesProviderForEveryContact(t *testing.T) {
	api := &fakeTwilio{}
	c := NewSMS(SMSConfig{AccountSID: "AC123", AuthToken: "tok", FromNumber: "+1"}, "")
	c.api = api

	const contacts = 15
	errs := make([]error, contacts)
	var wg sync.WaitGroup
	for i := 0; i < contacts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			errs[i] = c.Send(ctx, testMsg)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "contact %d", i)
	}
	require.Len(t, api.params, contacts)
}
