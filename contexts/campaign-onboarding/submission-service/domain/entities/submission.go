package entities

import (
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Campaign weeks are fixed for the whole program.
const (
	FirstCampaignWeek = 1
	LastCampaignWeek  = 6
)

type ReviewStatus string

const (
	ReviewStatusSubmitted     ReviewStatus = "SUBMITTED"
	ReviewStatusApproved      ReviewStatus = "APPROVED"
	ReviewStatusNeedsRevision ReviewStatus = "NEEDS_REVISION"
	ReviewStatusRejected      ReviewStatus = "REJECTED"
)

func (s ReviewStatus) IsReviewOutcome() bool {
	switch s {
	case ReviewStatusApproved, ReviewStatusNeedsRevision, ReviewStatusRejected:
		return true
	default:
		return false
	}
}

// Submission is one builder's proof-of-work for one campaign week: the GitHub
// repo for the challenge plus the public social post about it.
type Submission struct {
	SubmissionID   string
	UserAddress    string
	Week           int
	GithubURL      string
	SocialPostURL  string
	PayoutWallet   string
	Country        string
	Notes          string
	Status         ReviewStatus
	MentorFeedback string
	ReviewedBy     string
	SubmittedAt    time.Time
	UpdatedAt      time.Time
	ReviewedAt     *time.Time
}

func (s Submission) ValidateCreate() bool {
	return common.IsHexAddress(s.UserAddress) &&
		s.Week >= FirstCampaignWeek && s.Week <= LastCampaignWeek &&
		isGithubURL(s.GithubURL) &&
		isHTTPURL(s.SocialPostURL) &&
		(s.PayoutWallet == "" || common.IsHexAddress(s.PayoutWallet))
}

func isGithubURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Host)
	return (parsed.Scheme == "https" || parsed.Scheme == "http") &&
		(host == "github.com" || strings.HasSuffix(host, ".github.com"))
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "https" || parsed.Scheme == "http") && parsed.Host != ""
}
