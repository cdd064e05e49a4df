package entities

import "time"

const (
	FirstCampaignWeek  = 1
	LastCampaignWeek   = 6
	TotalCampaignWeeks = LastCampaignWeek - FirstCampaignWeek + 1
)

// Progress is one builder's week completion record. Weeks are a bitmask so
// out-of-order submissions and replays are naturally idempotent.
type Progress struct {
	UserAddress    string
	WeekMask       uint8
	RegisteredAt   time.Time
	LastActivityAt time.Time
	GraduatedAt    *time.Time
}

func (p Progress) HasCompleted(week int) bool {
	if week < FirstCampaignWeek || week > LastCampaignWeek {
		return false
	}
	return p.WeekMask&(1<<uint(week-1)) != 0
}

func (p *Progress) CompleteWeek(week int) {
	if week < FirstCampaignWeek || week > LastCampaignWeek {
		return
	}
	p.WeekMask |= 1 << uint(week-1)
}

func (p Progress) TotalWeeksCompleted() int {
	total := 0
	for week := FirstCampaignWeek; week <= LastCampaignWeek; week++ {
		if p.HasCompleted(week) {
			total++
		}
	}
	return total
}

// IsGraduate reports whether all campaign weeks are complete.
func (p Progress) IsGraduate() bool {
	return p.TotalWeeksCompleted() == TotalCampaignWeeks
}
