package domain

type Stats struct {
	Alerts         int64 `json:"alerts"`
	TrackingPoints int64 `json:"tracking_points"`
	Minutes        int   `json:"minutes"`
}

type StatsRequest struct {
	Minutes int `query:"minutes" validate:"minutes"` // 1 day max
}
