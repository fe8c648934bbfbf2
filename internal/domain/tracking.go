package domain

import "time"

// TrackingPoint is a live-location ping, independent of alerts.
type TrackingPoint struct {
	ID        int64     `json:"id"`
	Latitude  string    `json:"latitude"`
	Longitude string    `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

type UpdateLocationRequest struct {
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
}
