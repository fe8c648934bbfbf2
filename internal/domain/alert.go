package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Alert is an emergency report. Created once by the dispatcher, never updated.
type Alert struct {
	ID        int64     `json:"id"`
	Latitude  string    `json:"latitude"`
	Longitude string    `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// Coordinate keeps a client-submitted coordinate verbatim. Clients send it
// either as a JSON string or as a JSON number.
type Coordinate string

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Coordinate(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("coordinate must be a string or a number: %w", err)
	}
	*c = Coordinate(n.String())
	return nil
}

func (c Coordinate) String() string { return string(c) }

func (c Coordinate) Empty() bool { return strings.TrimSpace(string(c)) == "" }

type SendAlertRequest struct {
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
}

type ListAlertsResponse struct {
	Alerts []Alert `json:"alerts"`
}
