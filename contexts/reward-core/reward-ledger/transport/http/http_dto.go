package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GrantDTO struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Category  string `json:"category"`
	Week      int    `json:"week"`
	Proof     string `json:"proof"`
}

type AllocateBatchRequest struct {
	Grants []GrantDTO `json:"grants"`
}

type AllocateBatchResponse struct {
	Status string `json:"status"`
	Data   struct {
		BatchRef       string `json:"batch_ref"`
		GrantsApplied  int    `json:"grants_applied"`
		TotalAllocated int64  `json:"total_allocated"`
		AllocatedAt    string `json:"allocated_at"`
	} `json:"data"`
}

type ClaimRequest struct {
	Recipient string `json:"recipient"`
}

type ClaimResponse struct {
	Status string `json:"status"`
	Data   struct {
		Recipient  string `json:"recipient"`
		AmountPaid int64  `json:"amount_paid"`
		PaidAt     string `json:"paid_at"`
	} `json:"data"`
}

type StatsResponse struct {
	Status string `json:"status"`
	Data   struct {
		MaxBudget       int64 `json:"max_budget"`
		TotalAllocated  int64 `json:"total_allocated"`
		TotalPaid       int64 `json:"total_paid"`
		RemainingBudget int64 `json:"remaining_budget"`
		BalanceOnHand   int64 `json:"balance_on_hand"`
		Paused          bool  `json:"paused"`
	} `json:"data"`
}

type AvailableRewardsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Recipient string `json:"recipient"`
		Claimable int64  `json:"claimable"`
		Earned    int64  `json:"earned"`
		Claimed   int64  `json:"claimed"`
	} `json:"data"`
}

type FundRequest struct {
	Amount int64 `json:"amount"`
}

type EmergencyWithdrawResponse struct {
	Status string `json:"status"`
	Data   struct {
		AmountSwept int64 `json:"amount_swept"`
	} `json:"data"`
}
