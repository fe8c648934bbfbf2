package domain

import "time"

// AlertEvent is pushed to the outbound webhook after a dispatch completes.
type AlertEvent struct {
	AlertID   int64     `json:"alert_id"`
	Latitude  string    `json:"latitude"`
	Longitude string    `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	Contacts  int       `json:"contacts"`
	Delivered int       `json:"delivered"`
	Failed    int       `json:"failed"`
}
