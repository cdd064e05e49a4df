package application

import (
	"context"
	"sort"
	"time"

	"github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/ports"
	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

const defaultWeeklySubmissionTarget = 100

// KPIService composes the campaign health view over the other contexts'
// query ports.
type KPIService struct {
	Ledger        ports.LedgerSource
	Submissions   ports.SubmissionSource
	Progress      ports.ProgressSource
	Clock         ports.Clock
	Policy        rewardports.Policy
	WeeklyTargets map[int]int
}

type CountryCount struct {
	Country string
	Total   int
}

type CategoryInfo struct {
	Category  string
	Amount    int64
	WeeklyCap int
}

type WeekKPI struct {
	Week       int
	Target     int
	Actual     int
	Attainment float64
}

type KPIReport struct {
	GeneratedAt     time.Time
	Ledger          ports.LedgerView
	Progress        ports.ProgressView
	Weekly          []WeekKPI
	HealthScore     float64
	TopCountries    []CountryCount
	RewardStructure []CategoryInfo
}

func (s KPIService) Report(ctx context.Context) (KPIReport, error) {
	policy := s.Policy
	if policy.Categories == nil {
		policy = rewardports.DefaultPolicy()
	}

	ledger, err := s.Ledger.LedgerStats(ctx)
	if err != nil {
		return KPIReport{}, err
	}
	weeklyCounts, err := s.Submissions.WeeklyCounts(ctx)
	if err != nil {
		return KPIReport{}, err
	}
	countries, err := s.Submissions.CountryDistribution(ctx)
	if err != nil {
		return KPIReport{}, err
	}
	progress, err := s.Progress.CampaignStats(ctx)
	if err != nil {
		return KPIReport{}, err
	}

	report := KPIReport{
		GeneratedAt:     s.now(),
		Ledger:          ledger,
		Progress:        progress,
		Weekly:          s.weeklyKPIs(policy, weeklyCounts),
		TopCountries:    topCountries(countries, 10),
		RewardStructure: rewardStructure(policy),
	}
	report.HealthScore = healthScore(report.Weekly, ledger)
	return report, nil
}

func (s KPIService) weeklyKPIs(policy rewardports.Policy, counts map[int]int) []WeekKPI {
	weekly := make([]WeekKPI, 0, policy.LastWeek-policy.FirstWeek+1)
	for week := policy.FirstWeek; week <= policy.LastWeek; week++ {
		target := s.WeeklyTargets[week]
		if target <= 0 {
			target = defaultWeeklySubmissionTarget
		}
		kpi := WeekKPI{Week: week, Target: target, Actual: counts[week]}
		kpi.Attainment = float64(kpi.Actual) / float64(target)
		weekly = append(weekly, kpi)
	}
	return weekly
}

// healthScore blends average target attainment with budget utilization into a
// 0..100 number shown at the top of the dashboard.
func healthScore(weekly []WeekKPI, ledger ports.LedgerView) float64 {
	if len(weekly) == 0 {
		return 0
	}
	var attainment float64
	for _, kpi := range weekly {
		value := kpi.Attainment
		if value > 1 {
			value = 1
		}
		attainment += value
	}
	attainment /= float64(len(weekly))

	utilization := 0.0
	if ledger.MaxBudget > 0 {
		utilization = float64(ledger.TotalAllocated) / float64(ledger.MaxBudget)
	}
	return (attainment*0.7 + utilization*0.3) * 100
}

func topCountries(counts map[string]int, limit int) []CountryCount {
	items := make([]CountryCount, 0, len(counts))
	for country, total := range counts {
		items = append(items, CountryCount{Country: country, Total: total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Total != items[j].Total {
			return items[i].Total > items[j].Total
		}
		return items[i].Country < items[j].Country
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func rewardStructure(policy rewardports.Policy) []CategoryInfo {
	items := make([]CategoryInfo, 0, len(policy.Categories))
	for category, rule := range policy.Categories {
		items = append(items, CategoryInfo{
			Category:  string(category),
			Amount:    rule.Amount,
			WeeklyCap: rule.WeeklyCap,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Category < items[j].Category
	})
	return items
}

func (s KPIService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
