package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ProgressResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserAddress    string `json:"user_address"`
		WeeksCompleted []int  `json:"weeks_completed"`
		TotalWeeks     int    `json:"total_weeks"`
		Graduated      bool   `json:"graduated"`
		RegisteredAt   string `json:"registered_at"`
		LastActivityAt string `json:"last_activity_at"`
		GraduatedAt    string `json:"graduated_at,omitempty"`
	} `json:"data"`
}

type CampaignStatsResponse struct {
	Status string `json:"status"`
	Data   struct {
		TotalParticipants int         `json:"total_participants"`
		Graduates         int         `json:"graduates"`
		AverageWeeks      float64     `json:"average_weeks"`
		CompletionsByWeek map[int]int `json:"completions_by_week"`
	} `json:"data"`
}

type SyncResponse struct {
	Status string `json:"status"`
	Data   struct {
		RecordsApplied int `json:"records_applied"`
	} `json:"data"`
}
