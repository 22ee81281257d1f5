package planner

import (
	"time"

	"ptcoach/fitness-planner/internal/domain"
)

// CloneToDate copies src onto another day of the same user. The caller is
// responsible for refusing a target day that already has a plan.
func CloneToDate(src *domain.Plan, date time.Time) *domain.Plan {
	return clonePlan(src, src.UserID, date)
}

// CloneToUser copies src onto another user's calendar.
func CloneToUser(src *domain.Plan, userID int64, date time.Time) *domain.Plan {
	return clonePlan(src, userID, date)
}

// clonePlan keeps the prescription (name, video, sets, reps, coach note,
// superset) and drops everything the client logged. The id is left zero for
// the store to assign.
func clonePlan(src *domain.Plan, userID int64, date time.Time) *domain.Plan {
	exercises := make([]domain.PlanExercise, len(src.Exercises))
	for i, ex := range src.Exercises {
		ex = copyExercise(ex)
		exercises[i] = domain.PlanExercise{
			ID:         newExerciseID(),
			Name:       ex.Name,
			VideoURL:   ex.VideoURL,
			Sets:       ex.Sets,
			Reps:       ex.Reps,
			CoachNote:  ex.CoachNote,
			SupersetID: ex.SupersetID,
		}
	}
	return &domain.Plan{
		UserID:    userID,
		Title:     src.Title,
		Date:      domain.DateOf(date),
		Status:    domain.PlanStatusActive,
		Exercises: exercises,
	}
}
