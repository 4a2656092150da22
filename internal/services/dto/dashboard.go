package dto

// DashboardStats is the headline card row of the admin dashboard.
type DashboardStats struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveUsers    int64 `json:"active_users"`
	InactiveUsers  int64 `json:"inactive_users"`
	NewUsers30d    int64 `json:"new_users_30d"`
	Notifications  int64 `json:"notifications"`
	VerifiedPays   int64 `json:"verified_payments"`
	FailedPays     int64 `json:"failed_payments"`
	PendingReports int64 `json:"pending_reports"`
}

type ChartPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DashboardCharts struct {
	SignupsByDay  []ChartPoint     `json:"signups_by_day"`
	UsersByRole   map[string]int64 `json:"users_by_role"`
	PaymentsByDay []ChartPoint     `json:"payments_by_day"`
}

type RecentActivityResponse struct {
	Entries []*ActivityLogDTO `json:"entries"`
}
