package planner

import "ptcoach/fitness-planner/internal/domain"

// OpType names one authoring operation.
type OpType string

const (
	OpAdd             OpType = "add"
	OpRemove          OpType = "remove"
	OpToggleSelection OpType = "toggleSelection"
	OpGroup           OpType = "group"
	OpUngroup         OpType = "ungroup"
	OpMove            OpType = "move"
)

// Operation is a single edit replayed onto a Session.
type Operation struct {
	Type       OpType
	Index      int
	Direction  Direction
	SupersetID string

	// Add only. Exercise must already be resolved from the library.
	Exercise  *domain.Exercise
	Sets      string
	Reps      string
	CoachNote string
}

// Apply runs op against the session. Unknown operations are ignored.
func (s *Session) Apply(op Operation) {
	switch op.Type {
	case OpAdd:
		s.AddExercise(op.Exercise, op.Sets, op.Reps, op.CoachNote)
	case OpRemove:
		s.RemoveExercise(op.Index)
	case OpToggleSelection:
		s.ToggleSelection(op.Index)
	case OpGroup:
		s.GroupSelectedIntoSuperset()
	case OpUngroup:
		s.UngroupSuperset(op.SupersetID)
	case OpMove:
		s.MoveUnit(op.Index, op.Direction)
	}
}
