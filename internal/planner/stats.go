package planner

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"ptcoach/fitness-planner/internal/domain"
)

// MonthStats summarises one calendar month.
type MonthStats struct {
	Month          string         `json:"month"` // "2006-01"
	TotalPlans     int            `json:"totalPlans"`
	CompletedPlans int            `json:"completedPlans"`
	CompletionRate float64        `json:"completionRate"` // completed / total, 0..1
	SessionsByPlan map[string]int `json:"sessionsByPlan"` // completed sessions per plan title
}

// Stats feeds the analytics view.
type Stats struct {
	Months         []MonthStats `json:"months"` // ascending
	TotalCompleted int          `json:"totalCompleted"`
	CurrentStreak  int          `json:"currentStreak"`
	BestStreak     int          `json:"bestStreak"`
}

// ComputeStats derives monthly counts and daily streaks. A plan counts as
// completed when it has exercises and all of them are done.
func ComputeStats(plans []domain.Plan, today time.Time) Stats {
	byMonth := make(map[string]*MonthStats)
	days := make(map[time.Time]struct{})
	var stats Stats

	for i := range plans {
		p := &plans[i]
		key := domain.DateOf(p.Date).Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &MonthStats{Month: key, SessionsByPlan: make(map[string]int)}
			byMonth[key] = m
		}
		m.TotalPlans++
		if len(p.Exercises) == 0 || !p.AllDone() {
			continue
		}
		m.CompletedPlans++
		m.SessionsByPlan[p.Title]++
		stats.TotalCompleted++
		days[domain.DateOf(p.Date)] = struct{}{}
	}

	for _, m := range byMonth {
		if m.TotalPlans > 0 {
			m.CompletionRate = float64(m.CompletedPlans) / float64(m.TotalPlans)
		}
		stats.Months = append(stats.Months, *m)
	}
	sort.Slice(stats.Months, func(i, j int) bool {
		return stats.Months[i].Month < stats.Months[j].Month
	})

	stats.CurrentStreak = currentStreak(days, domain.DateOf(today))
	stats.BestStreak = bestStreak(days)
	return stats
}

// currentStreak counts consecutive completed days back from today, or from
// yesterday when today has nothing completed yet.
func currentStreak(days map[time.Time]struct{}, today time.Time) int {
	day := today
	if _, ok := days[day]; !ok {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for {
		if _, ok := days[day]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// bestStreak is the longest run of consecutive calendar days.
func bestStreak(days map[time.Time]struct{}) int {
	sorted := lo.Keys(days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	best, run := 0, 0
	for i, day := range sorted {
		if i > 0 && sorted[i-1].AddDate(0, 0, 1).Equal(day) {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}
