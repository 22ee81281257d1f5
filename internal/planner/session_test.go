package planner_test

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/planner"
)

var testDay = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func lib(name string) *domain.Exercise {
	return &domain.Exercise{ID: 1, Name: name, VideoURL: "https://youtu.be/" + name}
}

func names(s *planner.Session) []string {
	return lo.Map(s.Exercises(), func(ex domain.PlanExercise, _ int) string { return ex.Name })
}

func sessionWith(t *testing.T, exNames ...string) *planner.Session {
	t.Helper()
	s := planner.NewSession(testDay)
	for _, n := range exNames {
		s.AddExercise(lib(n), "3", "10", "")
	}
	require.Equal(t, len(exNames), s.Len())
	return s
}

// assertContiguous fails when any superset id shows up in two separate runs.
func assertContiguous(t *testing.T, exercises []domain.PlanExercise) {
	t.Helper()
	closed := make(map[string]bool)
	prev := ""
	for _, ex := range exercises {
		gid := ex.GroupID()
		if gid != prev && prev != "" {
			closed[prev] = true
		}
		if gid != "" {
			assert.False(t, closed[gid], "superset %s is not contiguous", gid)
		}
		prev = gid
	}
}

func TestSession_AddExercise(t *testing.T) {
	s := planner.NewSession(testDay)
	s.AddExercise(lib("squat"), "3", "10", "keep chest up")

	exs := s.Exercises()
	require.Len(t, exs, 1)
	assert.Equal(t, "squat", exs[0].Name)
	assert.Equal(t, "https://youtu.be/squat", exs[0].VideoURL)
	assert.Equal(t, "3", exs[0].Sets)
	assert.Equal(t, "10", exs[0].Reps)
	assert.Equal(t, "keep chest up", exs[0].CoachNote)
	assert.False(t, exs[0].Done)
	assert.Nil(t, exs[0].SupersetID)
	assert.NotEmpty(t, exs[0].ID)
}

func TestSession_AddExercise_InvalidInputIsNoop(t *testing.T) {
	s := planner.NewSession(testDay)
	s.AddExercise(nil, "3", "10", "")
	s.AddExercise(lib("squat"), "", "10", "")
	s.AddExercise(lib("squat"), "3", "  ", "")
	assert.Equal(t, 0, s.Len())
}

func TestSession_AddRemove_LengthAndOrder(t *testing.T) {
	s := sessionWith(t, "a", "b", "c", "d", "e")

	s.RemoveExercise(1)
	s.RemoveExercise(10) // out of range, ignored
	s.RemoveExercise(-1) // ignored
	s.AddExercise(lib("f"), "3", "8", "")
	s.RemoveExercise(0)

	assert.Equal(t, 5+1-2, s.Len())
	assert.Equal(t, []string{"c", "d", "e", "f"}, names(s))
}

func TestSession_RemoveExercise_ShiftsSelection(t *testing.T) {
	s := sessionWith(t, "a", "b", "c", "d")
	s.ToggleSelection(0)
	s.ToggleSelection(1)
	s.ToggleSelection(3)

	s.RemoveExercise(1)

	assert.Equal(t, []int{0, 2}, s.Selection())
}

func TestSession_ToggleSelection(t *testing.T) {
	s := sessionWith(t, "a", "b")
	s.ToggleSelection(1)
	assert.Equal(t, []int{1}, s.Selection())
	s.ToggleSelection(1)
	assert.Empty(t, s.Selection())
	s.ToggleSelection(5)
	assert.Empty(t, s.Selection())
}

func TestSession_ToggleSelection_IgnoresDoneExercises(t *testing.T) {
	s := planner.SessionFromPlan(&domain.Plan{
		Date:      testDay,
		Exercises: []domain.PlanExercise{{Name: "a", Done: true}, {Name: "b"}},
	})
	s.ToggleSelection(0)
	s.ToggleSelection(1)
	assert.Equal(t, []int{1}, s.Selection())
}

func TestSession_GroupSelectedIntoSuperset(t *testing.T) {
	s := sessionWith(t, "a", "b", "c", "d", "e")
	s.ToggleSelection(3)
	s.ToggleSelection(1)
	s.ToggleSelection(4)

	s.GroupSelectedIntoSuperset()

	assert.Equal(t, []string{"a", "b", "d", "e", "c"}, names(s))
	exs := s.Exercises()
	gid := exs[1].GroupID()
	require.NotEmpty(t, gid)
	assert.Equal(t, gid, exs[2].GroupID())
	assert.Equal(t, gid, exs[3].GroupID())
	assert.Empty(t, exs[0].GroupID())
	assert.Empty(t, exs[4].GroupID())
	assert.Empty(t, s.Selection())
	assertContiguous(t, exs)

	units := s.Units()
	require.Len(t, units, 3)
	assert.True(t, units[1].IsSuperset())
	assert.Len(t, units[1].Exercises, 3)
}

func TestSession_GroupSelectedIntoSuperset_NeedsTwo(t *testing.T) {
	s := sessionWith(t, "a", "b")
	s.ToggleSelection(0)
	s.GroupSelectedIntoSuperset()

	assert.Equal(t, []int{0}, s.Selection())
	for _, ex := range s.Exercises() {
		assert.Nil(t, ex.SupersetID)
	}
}

func TestSession_GroupThenUngroup_RestoresRelativeOrder(t *testing.T) {
	s := sessionWith(t, "a", "b", "c", "d")
	s.ToggleSelection(0)
	s.ToggleSelection(2)
	s.GroupSelectedIntoSuperset()
	gid := s.Exercises()[0].GroupID()

	s.UngroupSuperset(gid)

	assert.Equal(t, []string{"a", "c", "b", "d"}, names(s))
	for _, ex := range s.Exercises() {
		assert.Nil(t, ex.SupersetID)
	}
	assert.Len(t, s.Units(), 4)
}

func TestSession_UngroupSuperset_UnknownIDIsNoop(t *testing.T) {
	s := sessionWith(t, "a", "b")
	s.ToggleSelection(0)
	s.ToggleSelection(1)
	s.GroupSelectedIntoSuperset()
	before := s.Exercises()

	s.UngroupSuperset("ss-missing")

	assert.Equal(t, before, s.Exercises())
}

func TestSession_GroupingPartOfExistingSuperset_KeepsContiguity(t *testing.T) {
	s := sessionWith(t, "a", "b", "c", "d", "e")
	s.ToggleSelection(1)
	s.ToggleSelection(2)
	s.ToggleSelection(3)
	s.GroupSelectedIntoSuperset() // a [b c d] e

	s.ToggleSelection(0)
	s.ToggleSelection(2)
	s.GroupSelectedIntoSuperset() // [a c] b d e, old group split around nothing

	assert.Equal(t, []string{"a", "c", "b", "d", "e"}, names(s))
	assertContiguous(t, s.Exercises())
}

func TestSession_MoveUnit_SupersetMovesAsBlock(t *testing.T) {
	s := planner.NewSession(testDay)
	s.AddExercise(lib("A"), "3", "10", "")
	s.AddExercise(lib("B"), "3", "10", "")
	s.ToggleSelection(0)
	s.ToggleSelection(1)
	s.GroupSelectedIntoSuperset()
	require.Len(t, s.Units(), 1)
	s.AddExercise(lib("C"), "3", "12", "")

	s.MoveUnit(0, planner.Down)

	assert.Equal(t, []string{"C", "A", "B"}, names(s))
	assertContiguous(t, s.Exercises())
}

func TestSession_MoveUnit_IsItsOwnInverse(t *testing.T) {
	s := sessionWith(t, "a", "b", "c", "d")
	s.ToggleSelection(1)
	s.ToggleSelection(2)
	s.GroupSelectedIntoSuperset() // a [b c] d
	original := names(s)

	s.MoveUnit(2, planner.Up) // [b c] a d
	assert.Equal(t, []string{"b", "c", "a", "d"}, names(s))
	s.MoveUnit(0, planner.Down)
	assert.Equal(t, original, names(s))

	s.MoveUnit(3, planner.Down) // d is last
	s.MoveUnit(0, planner.Up)   // a is first
	assert.Equal(t, original, names(s))
}

func TestSession_MoveUnit_SelectionFollowsExercises(t *testing.T) {
	s := sessionWith(t, "a", "b", "c")
	s.ToggleSelection(0)

	s.MoveUnit(0, planner.Down)

	assert.Equal(t, []string{"b", "a", "c"}, names(s))
	assert.Equal(t, []int{1}, s.Selection())
}

func TestSessionFromPlan_SplitsNonContiguousGroups(t *testing.T) {
	plan := &domain.Plan{
		ID:   7,
		Date: testDay,
		Exercises: []domain.PlanExercise{
			{Name: "a", SupersetID: lo.ToPtr("ss-1")},
			{Name: "b", SupersetID: lo.ToPtr("ss-1")},
			{Name: "c"},
			{Name: "d", SupersetID: lo.ToPtr("ss-1")},
		},
	}

	s := planner.SessionFromPlan(plan)

	exs := s.Exercises()
	assert.Equal(t, int64(7), s.PlanID)
	assert.Equal(t, "ss-1", exs[0].GroupID())
	assert.Equal(t, "ss-1", exs[1].GroupID())
	assert.NotEqual(t, "ss-1", exs[3].GroupID())
	assert.NotEmpty(t, exs[3].GroupID())
	assertContiguous(t, exs)
	for _, ex := range exs {
		assert.NotEmpty(t, ex.ID)
	}
	// The source plan is not touched.
	assert.Empty(t, plan.Exercises[0].ID)
}

func TestSession_Apply(t *testing.T) {
	s := planner.RestoreSession([]domain.PlanExercise{{ID: "x", Name: "a"}, {ID: "y", Name: "b"}}, []int{1})

	s.Apply(planner.Operation{Type: planner.OpToggleSelection, Index: 0})
	s.Apply(planner.Operation{Type: planner.OpGroup})
	s.Apply(planner.Operation{Type: planner.OpAdd, Exercise: lib("c"), Sets: "4", Reps: "6"})
	s.Apply(planner.Operation{Type: planner.OpMove, Index: 2, Direction: planner.Up})
	s.Apply(planner.Operation{Type: "bogus"})

	assert.Equal(t, []string{"c", "a", "b"}, names(s))
	assert.Equal(t, "x", s.Exercises()[1].ID)
}
