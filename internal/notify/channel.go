// Package notify delivers emergency messages over email and SMS.
package notify

import (
	"context"
	"fmt"
	"strings"
)

type Kind string

const (
	KindEmail Kind = "email"
	KindSMS   Kind = "sms"
)

// Message is one notification for one recipient.
type Message struct {
	Recipient string
	Latitude  string
	Longitude string
	Timestamp string
}

// Channel sends a single message. A nil error means the provider accepted it.
// Implementations must not panic on bad configuration; they return
// e.ErrNotConfigured instead.
type Channel interface {
	Kind() Kind
	Send(ctx context.Context, msg Message) error
}

const DefaultMapsBaseURL = "https://www.google.com/maps"

func MapsLink(base, lat, lng string) string {
	if base == "" {
		base = DefaultMapsBaseURL
	}
	return fmt.Sprintf("%s?q=%s,%s", strings.TrimRight(base, "/"), lat, lng)
}

// Body is the human-readable text shared by every channel.
func Body(base string, msg Message) string {
	text := "Emergency! Location: " + MapsLink(base, msg.Latitude, msg.Longitude)
	if msg.Timestamp != "" {
		text += " (reported " + msg.Timestamp + ")"
	}
	return text
}
