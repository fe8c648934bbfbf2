package notify

import "log/slog"

type Config struct {
	DemoMode    bool
	MapsBaseURL string
	Email       EmailConfig
	SMS         SMSConfig
}

// NewChannels returns the email and SMS channels for the configured mode.
// Live channels with missing credentials are still returned; they fail each
// send with e.ErrNotConfigured.
func NewChannels(cfg Config, logger *slog.Logger) (email Channel, sms Channel) {
	if cfg.DemoMode {
		return NewDemo(KindEmail, cfg.MapsBaseURL, logger), NewDemo(KindSMS, cfg.MapsBaseURL, logger)
	}
	if !cfg.Email.configured() {
		logger.Warn("SMTP not configured, email deliveries will fail")
	}
	if !cfg.SMS.configured() {
		logger.Warn("Twilio not configured, SMS deliveries will fail")
	}
	return NewEmail(cfg.Email, cfg.MapsBaseURL), NewSMS(cfg.SMS, cfg.MapsBaseURL)
}
