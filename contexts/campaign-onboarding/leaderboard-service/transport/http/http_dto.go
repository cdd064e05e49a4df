package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RankedEntryDTO struct {
	Rank          int     `json:"rank"`
	Score         float64 `json:"score"`
	SubmissionID  string  `json:"submission_id"`
	UserAddress   string  `json:"user_address"`
	Week          int     `json:"week"`
	GithubURL     string  `json:"github_url"`
	SocialPostURL string  `json:"social_post_url"`
	SubmittedAt   string  `json:"submitted_at"`
}

type LeaderboardResponse struct {
	Status string `json:"status"`
	Data   struct {
		Week     int              `json:"week"`
		Category string           `json:"category"`
		Entries  []RankedEntryDTO `json:"entries"`
	} `json:"data"`
}
