package planner_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/planner"
)

func sourcePlan() *domain.Plan {
	return &domain.Plan{
		ID:     42,
		UserID: 2,
		Title:  "Leg Day",
		Date:   day(10),
		Status: domain.PlanStatusActive,
		Exercises: []domain.PlanExercise{
			{
				ID: "e1", Name: "squat", VideoURL: "v1", Sets: "5", Reps: "5",
				Done: true, Weight: "100kg", WeightKg: "100", WeightLbs: "220.5",
				CoachNote: "depth", UserNote: "felt heavy", SupersetID: lo.ToPtr("ss-1"),
			},
			{ID: "e2", Name: "lunge", Sets: "3", Reps: "12", SupersetID: lo.ToPtr("ss-1"), UserNote: "ok"},
			{ID: "e3", Name: "calf raise", Sets: "4", Reps: "15", Done: true, WeightKg: "40"},
		},
	}
}

func TestCloneToDate(t *testing.T) {
	src := sourcePlan()

	clone := planner.CloneToDate(src, day(24))

	assert.Zero(t, clone.ID)
	assert.Equal(t, src.UserID, clone.UserID)
	assert.Equal(t, src.Title, clone.Title)
	assert.Equal(t, day(24), clone.Date)
	assert.Equal(t, domain.PlanStatusActive, clone.Status)
	require.Len(t, clone.Exercises, len(src.Exercises))

	for i, ex := range clone.Exercises {
		orig := src.Exercises[i]
		assert.Equal(t, orig.Name, ex.Name)
		assert.Equal(t, orig.VideoURL, ex.VideoURL)
		assert.Equal(t, orig.Sets, ex.Sets)
		assert.Equal(t, orig.Reps, ex.Reps)
		assert.Equal(t, orig.CoachNote, ex.CoachNote)
		assert.Equal(t, orig.GroupID(), ex.GroupID())
		assert.False(t, ex.Done)
		assert.Empty(t, ex.Weight)
		assert.Empty(t, ex.WeightKg)
		assert.Empty(t, ex.WeightLbs)
		assert.Empty(t, ex.UserNote)
		assert.NotEmpty(t, ex.ID)
		assert.NotEqual(t, orig.ID, ex.ID)
	}

	// The source keeps its logged results.
	assert.True(t, src.Exercises[0].Done)
	assert.Equal(t, "100", src.Exercises[0].WeightKg)
	*clone.Exercises[0].SupersetID = "changed"
	assert.Equal(t, "ss-1", src.Exercises[0].GroupID())
}

func TestCloneToUser(t *testing.T) {
	src := sourcePlan()

	clone := planner.CloneToUser(src, 9, day(3))

	assert.Equal(t, int64(9), clone.UserID)
	assert.Equal(t, day(3), clone.Date)
	assert.Len(t, clone.Exercises, 3)
	assert.False(t, clone.AllDone())
}
