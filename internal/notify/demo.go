package notify

import (
	"context"
	"log/slog"
)

// Demo pretends to deliver. It lets the service run without credentials.
type Demo struct {
	kind   Kind
	base   string
	logger *slog.Logger
}

func NewDemo(kind Kind, mapsBaseURL string, logger *slog.Logger) *Demo {
	return &Demo{kind: kind, base: mapsBaseURL, logger: logger}
}

func (d *Demo) Kind() Kind { return d.kind }

func (d *Demo) Send(ctx context.Context, msg Message) error {
	d.logger.Info("[DEMO MODE] notification simulated",
		slog.String("channel", string(d.kind)),
		slog.String("to", msg.Recipient),
		slog.String("body", Body(d.base, msg)),
	)
	return nil
}
