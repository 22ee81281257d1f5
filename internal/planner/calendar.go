package planner

import (
	"time"

	"ptcoach/fitness-planner/internal/domain"
)

// Status of a calendar day or a single plan.
type Status string

const (
	StatusEmpty     Status = "empty"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
	StatusPending   Status = "pending"
)

// PlansOn returns the plans dated on day, in source order.
func PlansOn(plans []domain.Plan, day time.Time) []domain.Plan {
	day = domain.DateOf(day)
	var out []domain.Plan
	for _, p := range plans {
		if domain.DateOf(p.Date).Equal(day) {
			out = append(out, p)
		}
	}
	return out
}

// PlanStatus classifies one plan relative to today.
func PlanStatus(p *domain.Plan, today time.Time) Status {
	switch {
	case p.AllDone():
		return StatusCompleted
	case domain.DateOf(p.Date).Before(domain.DateOf(today)):
		return StatusMissed
	default:
		return StatusPending
	}
}

// DayStatus folds the plans of one day into a single status. A missed plan
// wins over a pending one.
func DayStatus(plansForDay []domain.Plan, today time.Time) Status {
	if len(plansForDay) == 0 {
		return StatusEmpty
	}
	var missed, pending bool
	for i := range plansForDay {
		switch PlanStatus(&plansForDay[i], today) {
		case StatusMissed:
			missed = true
		case StatusPending:
			pending = true
		}
	}
	switch {
	case missed:
		return StatusMissed
	case pending:
		return StatusPending
	default:
		return StatusCompleted
	}
}

// Selectable reports whether a day can be clicked. Past empty days are
// closed, and while cloning any day that already has a plan is closed.
func Selectable(day, today time.Time, plansForDay []domain.Plan, cloning bool) bool {
	if domain.DateOf(day).Before(domain.DateOf(today)) && len(plansForDay) == 0 {
		return false
	}
	if cloning && len(plansForDay) > 0 {
		return false
	}
	return true
}

// ResolveDay picks what the editor opens when a day is clicked: the first
// unfinished plan of the day, otherwise a fresh create session for that day.
// Days holding only finished plans also get a fresh session.
func ResolveDay(day time.Time, plansForDay []domain.Plan) *Session {
	for i := range plansForDay {
		if !plansForDay[i].AllDone() {
			return SessionFromPlan(&plansForDay[i])
		}
	}
	return NewSession(day)
}

// PlanSummary is the per-plan badge shown in a calendar cell.
type PlanSummary struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date        time.Time     `json:"date"`
	Status      Status        `json:"status"`
	Selectable  bool          `json:"selectable"`
	CloneTarget bool          `json:"cloneTarget"`
	Plans       []PlanSummary `json:"plans"`
}

// BuildMonth renders every day of month with its status and selectability.
func BuildMonth(year int, month time.Month, plans []domain.Plan, today time.Time, cloning bool) []CalendarDay {
	today = domain.DateOf(today)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := make([]CalendarDay, 0, 31)
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		dayPlans := PlansOn(plans, day)
		summaries := make([]PlanSummary, 0, len(dayPlans))
		for i := range dayPlans {
			summaries = append(summaries, PlanSummary{
				ID:     dayPlans[i].ID,
				Title:  dayPlans[i].Title,
				Status: PlanStatus(&dayPlans[i], today),
			})
		}
		days = append(days, CalendarDay{
			Date:        day,
			Status:      DayStatus(dayPlans, today),
			Selectable:  Selectable(day, today, dayPlans, cloning),
			CloneTarget: cloning && !day.Before(today) && len(dayPlans) == 0,
			Plans:       summaries,
		})
	}
	return days
}
