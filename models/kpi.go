package models

// DashboardSummary is the KPI strip at the top of the dashboard.
type DashboardSummary struct {
	Total            int    `json:"total"`
	TodayCount       int    `json:"today_count"`
	HighPriority     int    `json:"high_priority_count"`
	AwaitingAction   int    `json:"awaiting_action_count"`
	MonthAmount      int64  `json:"month_amount"`
	MonthAmountLabel string `json:"month_amount_label"`
}
