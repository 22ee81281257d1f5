// Package planner holds the plan authoring, calendar, clone and progress
// logic. Everything here is pure: no I/O, no errors, malformed input is a
// silent no-op.
package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"ptcoach/fitness-planner/internal/domain"
)

// Direction of a unit move.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

const supersetPrefix = "ss-"

var (
	newExerciseID = uuid.NewString
	newSupersetID = func() string { return supersetPrefix + uuid.NewString() }
)

// Unit is a logical unit of a plan: one ungrouped exercise, or a whole
// superset whose members share SupersetID.
type Unit struct {
	SupersetID string                `json:"supersetId,omitempty"`
	Exercises  []domain.PlanExercise `json:"exercises"`
}

// IsSuperset reports whether the unit is a group.
func (u Unit) IsSuperset() bool {
	return u.SupersetID != ""
}

// Session is the editor state of one plan being created or edited.
// It is owned by the caller and never shared.
type Session struct {
	PlanID int64 // zero while creating
	Title  string
	Date   time.Time

	units    []Unit
	selected map[int]struct{}
}

// NewSession starts an empty create session dated to date.
func NewSession(date time.Time) *Session {
	return &Session{
		Date:     domain.DateOf(date),
		selected: make(map[int]struct{}),
	}
}

// SessionFromPlan opens an edit session on a persisted plan.
func SessionFromPlan(p *domain.Plan) *Session {
	s := NewSession(p.Date)
	s.PlanID = p.ID
	s.Title = p.Title
	s.units = buildUnits(p.Exercises)
	return s
}

// RestoreSession rebuilds a session from a flat exercise list and a selection,
// as a stateless client round-trips it.
func RestoreSession(exercises []domain.PlanExercise, selection []int) *Session {
	s := NewSession(time.Time{})
	s.units = buildUnits(exercises)
	for _, i := range selection {
		s.ToggleSelection(i)
	}
	return s
}

// Normalize returns exercises with ids assigned and superset contiguity enforced.
func Normalize(exercises []domain.PlanExercise) []domain.PlanExercise {
	return flatten(buildUnits(exercises))
}

// buildUnits splits a flat list into logical units. Every exercise gets an
// id if it has none. A group id that shows up again after a gap starts a new
// group with a fresh id, so contiguity always holds.
func buildUnits(exercises []domain.PlanExercise) []Unit {
	units := make([]Unit, 0, len(exercises))
	seen := make(map[string]struct{})
	runGroup := "" // group id, as found in the input, of the last unit
	for _, ex := range exercises {
		ex = copyExercise(ex)
		if ex.ID == "" {
			ex.ID = newExerciseID()
		}
		gid := strings.TrimSpace(ex.GroupID())
		if gid == "" {
			ex.SupersetID = nil
			units = append(units, Unit{Exercises: []domain.PlanExercise{ex}})
			runGroup = ""
			continue
		}
		if gid == runGroup {
			last := &units[len(units)-1]
			ex.SupersetID = lo.ToPtr(last.SupersetID)
			last.Exercises = append(last.Exercises, ex)
			continue
		}

		id := gid
		if _, dup := seen[gid]; dup {
			id = newSupersetID()
		}
		seen[gid] = struct{}{}
		ex.SupersetID = lo.ToPtr(id)
		units = append(units, Unit{SupersetID: id, Exercises: []domain.PlanExercise{ex}})
		runGroup = gid
	}
	return units
}

func copyExercise(ex domain.PlanExercise) domain.PlanExercise {
	if ex.SupersetID != nil {
		ex.SupersetID = lo.ToPtr(*ex.SupersetID)
	}
	return ex
}

func flatten(units []Unit) []domain.PlanExercise {
	out := make([]domain.PlanExercise, 0, len(units))
	for _, u := range units {
		for _, ex := range u.Exercises {
			out = append(out, copyExercise(ex))
		}
	}
	return out
}

// Exercises returns a copy of the flat, ordered exercise list.
func (s *Session) Exercises() []domain.PlanExercise {
	return flatten(s.units)
}

// Units returns a copy of the logical units in order.
func (s *Session) Units() []Unit {
	out := make([]Unit, len(s.units))
	for i, u := range s.units {
		out[i] = Unit{SupersetID: u.SupersetID, Exercises: flatten([]Unit{u})}
	}
	return out
}

// Len is the number of exercises in the session.
func (s *Session) Len() int {
	n := 0
	for _, u := range s.units {
		n += len(u.Exercises)
	}
	return n
}

// Selection returns the selected flat indices in ascending order.
func (s *Session) Selection() []int {
	out := lo.Keys(s.selected)
	sort.Ints(out)
	return out
}

// locate maps a flat index to its unit and the offset inside that unit.
func (s *Session) locate(index int) (unit, offset int, ok bool) {
	if index < 0 {
		return 0, 0, false
	}
	for u := range s.units {
		n := len(s.units[u].Exercises)
		if index < n {
			return u, index, true
		}
		index -= n
	}
	return 0, 0, false
}

func (s *Session) at(index int) *domain.PlanExercise {
	u, off, ok := s.locate(index)
	if !ok {
		return nil
	}
	return &s.units[u].Exercises[off]
}

// AddExercise appends a copy of a library exercise as an ungrouped,
// not-done entry. Missing sets, reps or exercise make it a no-op.
func (s *Session) AddExercise(lib *domain.Exercise, sets, reps, coachNote string) {
	if lib == nil || strings.TrimSpace(sets) == "" || strings.TrimSpace(reps) == "" {
		return
	}
	s.units = append(s.units, Unit{Exercises: []domain.PlanExercise{{
		ID:        newExerciseID(),
		Name:      lib.Name,
		VideoURL:  lib.VideoURL,
		Sets:      sets,
		Reps:      reps,
		CoachNote: coachNote,
	}}})
}

// RemoveExercise drops the exercise at index and shifts the selection down.
func (s *Session) RemoveExercise(index int) {
	u, off, ok := s.locate(index)
	if !ok {
		return
	}
	unit := &s.units[u]
	unit.Exercises = append(unit.Exercises[:off], unit.Exercises[off+1:]...)
	if len(unit.Exercises) == 0 {
		s.units = append(s.units[:u], s.units[u+1:]...)
	}

	selected := make(map[int]struct{}, len(s.selected))
	for i := range s.selected {
		switch {
		case i == index:
		case i > index:
			selected[i-1] = struct{}{}
		default:
			selected[i] = struct{}{}
		}
	}
	s.selected = selected
}

// ToggleSelection flips index in the selection set. Done exercises cannot be selected.
func (s *Session) ToggleSelection(index int) {
	ex := s.at(index)
	if ex == nil || ex.Done {
		return
	}
	if _, ok := s.selected[index]; ok {
		delete(s.selected, index)
		return
	}
	s.selected[index] = struct{}{}
}

// GroupSelectedIntoSuperset moves the selected exercises, in their current
// relative order, to a new superset starting at the lowest selected
// position. Needs at least two selected exercises.
func (s *Session) GroupSelectedIntoSuperset() {
	sel := s.Selection()
	if len(sel) < 2 {
		return
	}
	id := newSupersetID()
	flat := s.Exercises()

	grouped := make([]domain.PlanExercise, 0, len(sel))
	rest := make([]domain.PlanExercise, 0, len(flat)-len(sel))
	for i, ex := range flat {
		if _, ok := s.selected[i]; ok {
			ex.SupersetID = lo.ToPtr(id)
			grouped = append(grouped, ex)
			continue
		}
		rest = append(rest, ex)
	}

	// Everything before the first selected index is unselected, so it is
	// also the insertion point inside rest.
	at := sel[0]
	out := make([]domain.PlanExercise, 0, len(flat))
	out = append(out, rest[:at]...)
	out = append(out, grouped...)
	out = append(out, rest[at:]...)

	s.units = buildUnits(out)
	s.selected = make(map[int]struct{})
}

// UngroupSuperset dissolves the superset in place.
func (s *Session) UngroupSuperset(supersetID string) {
	for u := range s.units {
		if !s.units[u].IsSuperset() || s.units[u].SupersetID != supersetID {
			continue
		}
		singles := make([]Unit, 0, len(s.units[u].Exercises))
		for _, ex := range s.units[u].Exercises {
			ex.SupersetID = nil
			singles = append(singles, Unit{Exercises: []domain.PlanExercise{ex}})
		}
		units := make([]Unit, 0, len(s.units)+len(singles)-1)
		units = append(units, s.units[:u]...)
		units = append(units, singles...)
		units = append(units, s.units[u+1:]...)
		s.units = units
		return
	}
}

// MoveUnit swaps the logical unit holding index with its neighbour in dir.
// A superset moves as one block. Selected exercises stay selected.
func (s *Session) MoveUnit(index int, dir Direction) {
	u, _, ok := s.locate(index)
	if !ok {
		return
	}
	var v int
	switch dir {
	case Up:
		v = u - 1
	case Down:
		v = u + 1
	default:
		return
	}
	if v < 0 || v >= len(s.units) {
		return
	}

	selectedIDs := make(map[string]struct{}, len(s.selected))
	for i := range s.selected {
		if ex := s.at(i); ex != nil {
			selectedIDs[ex.ID] = struct{}{}
		}
	}

	s.units[u], s.units[v] = s.units[v], s.units[u]

	s.selected = make(map[int]struct{}, len(selectedIDs))
	for i, ex := range s.Exercises() {
		if _, ok := selectedIDs[ex.ID]; ok {
			s.selected[i] = struct{}{}
		}
	}
}
