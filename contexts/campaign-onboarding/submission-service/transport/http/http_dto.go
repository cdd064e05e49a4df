package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmissionDTO struct {
	SubmissionID   string `json:"submission_id"`
	UserAddress    string `json:"user_address"`
	Week           int    `json:"week"`
	GithubURL      string `json:"github_url"`
	SocialPostURL  string `json:"social_post_url"`
	PayoutWallet   string `json:"payout_wallet,omitempty"`
	Country        string `json:"country,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Status         string `json:"status"`
	MentorFeedback string `json:"mentor_feedback,omitempty"`
	ReviewedBy     string `json:"reviewed_by,omitempty"`
	SubmittedAt    string `json:"submitted_at"`
	ReviewedAt     string `json:"reviewed_at,omitempty"`
}

type SubmitChallengeRequest struct {
	UserAddress   string `json:"user_address"`
	Week          int    `json:"week"`
	GithubURL     string `json:"github_url"`
	SocialPostURL string `json:"social_post_url"`
	PayoutWallet  string `json:"payout_wallet"`
	Country       string `json:"country"`
	Notes         string `json:"notes"`
}

type SubmitChallengeResponse struct {
	Status string        `json:"status"`
	Data   SubmissionDTO `json:"data"`
}

type ReviewSubmissionRequest struct {
	Outcome        string `json:"outcome"`
	MentorFeedback string `json:"mentor_feedback"`
	ReviewedBy     string `json:"reviewed_by"`
}

type ReviewSubmissionResponse struct {
	Status string        `json:"status"`
	Data   SubmissionDTO `json:"data"`
}

type ListSubmissionsResponse struct {
	Status string          `json:"status"`
	Data   []SubmissionDTO `json:"data"`
}

type WeeklyCountsResponse struct {
	Status string      `json:"status"`
	Data   map[int]int `json:"data"`
}

type CountryDistributionResponse struct {
	Status string         `json:"status"`
	Data   map[string]int `json:"data"`
}
