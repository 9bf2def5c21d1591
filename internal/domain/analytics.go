package domain

import "time"

// DashboardOverview holds complaint totals by status.
type DashboardOverview struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
}

// BucketCount is a count for one category or priority value.
type BucketCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// MonthlyCount is the number of complaints created in a calendar month.
type MonthlyCount struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// Before orders monthly buckets chronologically.
func (m MonthlyCount) Before(other MonthlyCount) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Dashboard aggregates complaint analytics for admins.
type Dashboard struct {
	Overview     DashboardOverview `json:"overview"`
	ByCategory   []BucketCount     `json:"by_category"`
	ByPriority   []BucketCount     `json:"by_priority"`
	MonthlyTrend []MonthlyCount    `json:"monthly_trend"`
	GeneratedAt  time.Time         `json:"generated_at"`
}
