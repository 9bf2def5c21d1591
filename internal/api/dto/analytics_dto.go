package dto

import "github.com/complaint-desk/complaint-service/internal/domain"

// DashboardOverview mirrors the status totals of the dashboard.
type DashboardOverview struct {
	TotalComplaints      int `json:"totalComplaints"`
	OpenComplaints       int `json:"openComplaints"`
	InProgressComplaints int `json:"inProgressComplaints"`
	ResolvedComplaints   int `json:"resolvedComplaints"`
	ClosedComplaints     int `json:"closedComplaints"`
}

// CountBucket is a grouped count keyed by "_id".
type CountBucket struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// MonthBucket is a monthly count keyed by "_id".
type MonthBucket struct {
	ID    MonthKey `json:"_id"`
	Count int      `json:"count"`
}

// DashboardResponse is the admin analytics payload.
type DashboardResponse struct {
	Overview             DashboardOverview `json:"overview"`
	ComplaintsByCategory []CountBucket     `json:"complaintsByCategory"`
	ComplaintsByPriority []CountBucket     `json:"complaintsByPriority"`
	MonthlyTrend         []MonthBucket     `json:"monthlyTrend"`
}

// NewDashboardResponse maps the domain dashboard.
func NewDashboardResponse(d *domain.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		Overview: DashboardOverview{
			TotalComplaints:      d.Overview.Total,
			OpenComplaints:       d.Overview.Open,
			InProgressComplaints: d.Overview.InProgress,
			ResolvedComplaints:   d.Overview.Resolved,
			ClosedComplaints:     d.Overview.Closed,
		},
		ComplaintsByCategory: countBuckets(d.ByCategory),
		ComplaintsByPriority: countBuckets(d.ByPriority),
		MonthlyTrend:         make([]MonthBucket, 0, len(d.MonthlyTrend)),
	}
	for _, m := range d.MonthlyTrend {
		resp.MonthlyTrend = append(resp.MonthlyTrend, MonthBucket{
			ID:    MonthKey{Year: m.Year, Month: m.Month},
			Count: m.Count,
		})
	}
	return resp
}

func countBuckets(in []domain.BucketCount) []CountBucket {
	out := make([]CountBucket, 0, len(in))
	for _, b := range in {
		out = append(out, CountBucket{ID: b.Key, Count: b.Count})
	}
	return out
}
