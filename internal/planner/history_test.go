package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/planner"
)

func TestBuildHistory_OnlyDoneExercises(t *testing.T) {
	plans := []domain.Plan{
		{ID: 1, Date: day(5), Exercises: []domain.PlanExercise{{Name: "bench", Done: false, WeightKg: "60"}}},
		{ID: 2, Date: day(7), Exercises: []domain.PlanExercise{{Name: "bench", Done: true, WeightKg: "62.5", WeightLbs: "137.8", UserNote: "easy"}}},
	}

	history := planner.BuildHistory(plans)

	require.Len(t, history["bench"], 1)
	assert.Equal(t, planner.HistoryRecord{
		PlanID: 2, Date: day(7), WeightKg: "62.5", WeightLbs: "137.8", UserNote: "easy",
	}, history["bench"][0])
}

func TestBuildHistory_InsertionOrderAndSorting(t *testing.T) {
	plans := []domain.Plan{
		{ID: 1, Date: day(9), Exercises: []domain.PlanExercise{{Name: "row", Done: true, Weight: "50kg"}}},
		{ID: 2, Date: day(2), Exercises: []domain.PlanExercise{{Name: "row", Done: true}, {Name: "row", Done: true}}},
		{ID: 3, Date: day(5), Exercises: []domain.PlanExercise{{Name: "curl", Done: true}}},
	}

	history := planner.BuildHistory(plans)
	require.Len(t, history["row"], 3)
	assert.Equal(t, day(9), history["row"][0].Date)

	sorted := history.SortedByDate()
	assert.Equal(t, day(2), sorted["row"][0].Date)
	assert.Equal(t, day(2), sorted["row"][1].Date)
	assert.Equal(t, day(9), sorted["row"][2].Date)
	assert.Len(t, sorted["curl"], 1)
	// The original buckets keep insertion order.
	assert.Equal(t, day(9), history["row"][0].Date)
}

func TestLastCompletedInstance(t *testing.T) {
	plans := []domain.Plan{
		{ID: 1, Date: day(1), Exercises: []domain.PlanExercise{{Name: "squat", Done: true, WeightKg: "90", WeightLbs: "198.4", UserNote: "old"}}},
		{ID: 3, Date: day(9), Exercises: []domain.PlanExercise{{Name: "squat", Done: false, WeightKg: "120"}}},
		{ID: 2, Date: day(5), Exercises: []domain.PlanExercise{
			{Name: "bench", Done: true},
			{Name: "squat", Done: true, Weight: "95kg", WeightKg: "95", UserNote: "solid"},
		}},
	}

	inst, ok := planner.LastCompletedInstance(plans, "squat")
	require.True(t, ok)
	assert.Equal(t, int64(2), inst.PlanID)
	assert.Equal(t, "95", inst.WeightKg)
	assert.Empty(t, inst.WeightLbs)
	assert.Empty(t, inst.Weight, "kg/lbs pair wins over legacy weight")
	assert.Equal(t, "solid", inst.LastComment)
}

func TestLastCompletedInstance_LegacyWeightFallback(t *testing.T) {
	plans := []domain.Plan{
		{ID: 1, Date: day(1), Exercises: []domain.PlanExercise{{Name: "deadlift", Done: true, Weight: "140kg"}}},
	}

	inst, ok := planner.LastCompletedInstance(plans, "deadlift")
	require.True(t, ok)
	assert.Equal(t, "140kg", inst.Weight)
	assert.Empty(t, inst.WeightKg)
	assert.Empty(t, inst.LastComment)
}

func TestLastCompletedInstance_NotFound(t *testing.T) {
	plans := []domain.Plan{
		{ID: 1, Date: day(1), Exercises: []domain.PlanExercise{{Name: "deadlift", Done: false}}},
		{ID: 2, Date: day(2), Exercises: []domain.PlanExercise{{Name: "Deadlift", Done: true}}},
	}

	_, ok := planner.LastCompletedInstance(plans, "deadlift")
	assert.False(t, ok)

	_, ok = planner.LastCompletedInstance(nil, "deadlift")
	assert.False(t, ok)
}
