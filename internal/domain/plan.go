// internal/domain/plan.go
package domain

import (
	"time"
)

const PlanStatusActive = "active"

// PlanExercise is one entry of a plan. It is a value copy of a library
// exercise plus the prescription and the client's logged result.
type PlanExercise struct {
	ID        string `bson:"exerciseId,omitempty" json:"id"` // Stable across reorders
	Name      string `bson:"name" json:"name"`
	VideoURL  string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Sets      string `bson:"sets" json:"sets"`
	Reps      string `bson:"reps" json:"reps"`
	Done      bool   `bson:"done" json:"done"`
	Weight    string `bson:"weight" json:"weight"` // Legacy free-text weight, e.g. "80kg"
	WeightKg  string `bson:"weightKg" json:"weightKg"`
	WeightLbs string `bson:"weightLbs" json:"weightLbs"`
	CoachNote string `bson:"coachNote" json:"coachNote"`
	UserNote  string `bson:"userNote" json:"userNote"`
	// SupersetID groups exercises performed back-to-back. Members are always contiguous.
	SupersetID *string `bson:"supersetId,omitempty" json:"supersetId"`
}

// GroupID returns the superset id or "" for an ungrouped exercise.
func (e *PlanExercise) GroupID() string {
	if e.SupersetID == nil {
		return ""
	}
	return *e.SupersetID
}

// Plan is a dated, ordered collection of exercises assigned to one user.
type Plan struct {
	ID        int64          `bson:"id" json:"id"`
	UserID    int64          `bson:"userId" json:"userId"`
	Title     string         `bson:"title" json:"title"`
	Date      time.Time      `bson:"date" json:"date"` // Calendar day, midnight UTC
	Status    string         `bson:"status" json:"status"`
	Exercises []PlanExercise `bson:"exercises" json:"exercises"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// AllDone reports whether every exercise of the plan is done.
// Like the calendar, it treats a plan without exercises as done.
func (p *Plan) AllDone() bool {
	for i := range p.Exercises {
		if !p.Exercises[i].Done {
			return false
		}
	}
	return true
}

// DateOf truncates t to its calendar day at midnight UTC, keeping t's own year/month/day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in loc, expressed as midnight UTC.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}
