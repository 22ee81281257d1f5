package service

import (
	"context"
	"errors"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/planner"
)

// AuthoringOperation is one editor action. LibraryExerciseID names the
// library entry an add operation copies from.
type AuthoringOperation struct {
	Type              planner.OpType
	Index             int
	Direction         planner.Direction
	SupersetID        string
	LibraryExerciseID int64
	Sets              string
	Reps              string
	CoachNote         string
}

// AuthoringState is the round-tripped editor state of a stateless client.
type AuthoringState struct {
	Exercises []domain.PlanExercise `json:"exercises"`
	Selection []int                 `json:"selection"`
	Units     []planner.Unit        `json:"units"`
}

// AuthoringService replays editor operations onto a plan draft.
type AuthoringService interface {
	Apply(ctx context.Context, exercises []domain.PlanExercise, selection []int, ops []AuthoringOperation) (*AuthoringState, error)
}

type authoringService struct {
	exercises ExerciseService
}

func NewAuthoringService(exercises ExerciseService) AuthoringService {
	return &authoringService{exercises: exercises}
}

// Apply runs ops in order. Malformed operations are no-ops, and an add that
// names an unknown library exercise is skipped the same way.
func (s *authoringService) Apply(ctx context.Context, exercises []domain.PlanExercise, selection []int, ops []AuthoringOperation) (*AuthoringState, error) {
	session := planner.RestoreSession(exercises, selection)
	for _, op := range ops {
		pop := planner.Operation{
			Type:       op.Type,
			Index:      op.Index,
			Direction:  op.Direction,
			SupersetID: op.SupersetID,
			Sets:       op.Sets,
			Reps:       op.Reps,
			CoachNote:  op.CoachNote,
		}
		if op.Type == planner.OpAdd {
			lib, err := s.exercises.GetExercise(ctx, op.LibraryExerciseID)
			if err != nil && !errors.Is(err, ErrExerciseNotFound) {
				return nil, err
			}
			pop.Exercise = lib
		}
		session.Apply(pop)
	}
	return &AuthoringState{
		Exercises: session.Exercises(),
		Selection: session.Selection(),
		Units:     session.Units(),
	}, nil
}
