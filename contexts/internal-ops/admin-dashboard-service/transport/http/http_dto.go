package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RecordAdminActionRequest struct {
	Action        string `json:"action"`
	TargetID      string `json:"target_id"`
	Justification string `json:"justification"`
	SourceIP      string `json:"source_ip"`
	CorrelationID string `json:"correlation_id"`
}

type RecordAdminActionResponse struct {
	AuditID    string `json:"audit_id"`
	OccurredAt string `json:"occurred_at"`
}

type AdminActionDTO struct {
	AuditID       string `json:"audit_id"`
	ActorID       string `json:"actor_id"`
	Action        string `json:"action"`
	TargetID      string `json:"target_id,omitempty"`
	Justification string `json:"justification"`
	OccurredAt    string `json:"occurred_at"`
}

type ListAdminActionsResponse struct {
	Status string           `json:"status"`
	Data   []AdminActionDTO `json:"data"`
}

type WeekKPIDTO struct {
	Week       int     `json:"week"`
	Target     int     `json:"target"`
	Actual     int     `json:"actual"`
	Attainment float64 `json:"attainment"`
}

type CountryCountDTO struct {
	Country string `json:"country"`
	Total   int    `json:"total"`
}

type CategoryInfoDTO struct {
	Category  string `json:"category"`
	Amount    int64  `json:"amount"`
	WeeklyCap int    `json:"weekly_cap"`
}

type KPIReportResponse struct {
	Status string `json:"status"`
	Data   struct {
		GeneratedAt string  `json:"generated_at"`
		HealthScore float64 `json:"health_score"`
		Ledger      struct {
			MaxBudget       int64 `json:"max_budget"`
			TotalAllocated  int64 `json:"total_allocated"`
			TotalPaid       int64 `json:"total_paid"`
			RemainingBudget int64 `json:"remaining_budget"`
			BalanceOnHand   int64 `json:"balance_on_hand"`
			Paused          bool  `json:"paused"`
		} `json:"ledger"`
		Progress struct {
			TotalParticipants int         `json:"total_participants"`
			Graduates         int         `json:"graduates"`
			AverageWeeks      float64     `json:"average_weeks"`
			CompletionsByWeek map[int]int `json:"completions_by_week"`
		} `json:"progress"`
		Weekly          []WeekKPIDTO      `json:"weekly"`
		TopCountries    []CountryCountDTO `json:"top_countries"`
		RewardStructure []CategoryInfoDTO `json:"reward_structure"`
	} `json:"data"`
}
