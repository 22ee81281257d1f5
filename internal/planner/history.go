package planner

import (
	"sort"
	"time"

	"ptcoach/fitness-planner/internal/domain"
)

// HistoryRecord is one completed occurrence of an exercise.
type HistoryRecord struct {
	PlanID    int64     `json:"planId"`
	Date      time.Time `json:"date"`
	WeightKg  string    `json:"weightKg"`
	WeightLbs string    `json:"weightLbs"`
	Weight    string    `json:"weight"`
	UserNote  string    `json:"userNote"`
}

// History maps an exercise name to its completed occurrences.
type History map[string][]HistoryRecord

// BuildHistory collects every done exercise of every plan, bucketed by
// exercise name in plan order. No dedup, no sorting.
func BuildHistory(plans []domain.Plan) History {
	history := make(History)
	for _, p := range plans {
		for _, ex := range p.Exercises {
			if !ex.Done {
				continue
			}
			history[ex.Name] = append(history[ex.Name], HistoryRecord{
				PlanID:    p.ID,
				Date:      p.Date,
				WeightKg:  ex.WeightKg,
				WeightLbs: ex.WeightLbs,
				Weight:    ex.Weight,
				UserNote:  ex.UserNote,
			})
		}
	}
	return history
}

// SortedByDate returns a copy with every bucket ordered by ascending date,
// which is what charts plot.
func (h History) SortedByDate() History {
	out := make(History, len(h))
	for name, records := range h {
		sorted := append([]HistoryRecord(nil), records...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Date.Before(sorted[j].Date)
		})
		out[name] = sorted
	}
	return out
}

// LastInstance is the most recent completed occurrence of one exercise.
// When a kg/lbs pair was logged the legacy Weight is left empty.
type LastInstance struct {
	PlanID      int64     `json:"planId"`
	Date        time.Time `json:"date"`
	WeightKg    string    `json:"weightKg"`
	WeightLbs   string    `json:"weightLbs"`
	Weight      string    `json:"weight"`
	LastComment string    `json:"lastComment"`
}

// LastCompletedInstance scans plans newest first and returns the first done
// exercise named name. ok is false when there is no prior data.
func LastCompletedInstance(plans []domain.Plan, name string) (LastInstance, bool) {
	sorted := append([]domain.Plan(nil), plans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	for _, p := range sorted {
		for _, ex := range p.Exercises {
			if ex.Name != name || !ex.Done {
				continue
			}
			inst := LastInstance{
				PlanID:      p.ID,
				Date:        p.Date,
				LastComment: ex.UserNote,
			}
			if ex.WeightKg != "" || ex.WeightLbs != "" {
				inst.WeightKg = ex.WeightKg
				inst.WeightLbs = ex.WeightLbs
			} else {
				inst.Weight = ex.Weight
			}
			return inst, true
		}
	}
	return LastInstance{}, false
}
