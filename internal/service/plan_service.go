package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/planner"
	"ptcoach/fitness-planner/internal/repository"
)

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrExerciseIndexInvalid = errors.New("exercise not found in plan")
	ErrDateOccupied         = errors.New("target date already has a plan")
)

// Clock returns the current instant. Tests pin it.
type Clock func() time.Time

type CreatePlanInput struct {
	UserID    int64
	Title     string
	Date      time.Time
	Exercises []domain.PlanExercise
}

// ToggleInput addresses one exercise either by its id or, for older clients,
// by its position in the plan.
type ToggleInput struct {
	ExerciseID    string
	ExerciseIndex *int
	Done          bool
	WeightKg      string
	WeightLbs     string
	UserNote      *string
}

// CloneInput targets a date and optionally another user. Zero UserID clones
// onto the source plan's own user.
type CloneInput struct {
	Date   time.Time
	UserID int64
}

type PlanService interface {
	CreatePlan(ctx context.Context, in CreatePlanInput) (*domain.Plan, error)
	GetPlan(ctx context.Context, actor Actor, id int64) (*domain.Plan, error)
	ListPlans(ctx context.Context, actor Actor, userID int64) ([]domain.Plan, error)
	UpdatePlan(ctx context.Context, id int64, title string, exercises []domain.PlanExercise) (*domain.Plan, error)
	ToggleExercise(ctx context.Context, actor Actor, planID int64, in ToggleInput) (*domain.Plan, error)
	DeletePlan(ctx context.Context, id int64) error
	ClonePlan(ctx context.Context, id int64, in CloneInput) (*domain.Plan, error)
}

type planService struct {
	planRepo repository.PlanRepository
	userRepo repository.UserRepository
}

func NewPlanService(planRepo repository.PlanRepository, userRepo repository.UserRepository) PlanService {
	return &planService{
		planRepo: planRepo,
		userRepo: userRepo,
	}
}

// CreatePlan stores a new plan. Submitted exercises start undone with no logged results.
func (s *planService) CreatePlan(ctx context.Context, in CreatePlanInput) (*domain.Plan, error) {
	title := strings.TrimSpace(in.Title)
	if err := validatePlan(title, in.Date, in.Exercises); err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	exercises := planner.Normalize(in.Exercises)
	for i := range exercises {
		resetResult(&exercises[i])
	}

	plan := &domain.Plan{
		UserID:    in.UserID,
		Title:     title,
		Date:      domain.DateOf(in.Date),
		Status:    domain.PlanStatusActive,
		Exercises: exercises,
	}
	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	log.Debug("plan created", "plan", plan.ID, "user", plan.UserID, "date", plan.Date.Format(time.DateOnly))
	return plan, nil
}

func validatePlan(title string, date time.Time, exercises []domain.PlanExercise) error {
	switch {
	case title == "":
		return fmt.Errorf("%w: title is required", ErrValidationFailed)
	case date.IsZero():
		return fmt.Errorf("%w: date is required", ErrValidationFailed)
	case len(exercises) == 0:
		return fmt.Errorf("%w: a plan needs at least one exercise", ErrValidationFailed)
	}
	for i, ex := range exercises {
		if strings.TrimSpace(ex.Name) == "" || strings.TrimSpace(ex.Sets) == "" || strings.TrimSpace(ex.Reps) == "" {
			return fmt.Errorf("%w: exercise %d needs name, sets and reps", ErrValidationFailed, i)
		}
	}
	return nil
}

func resetResult(ex *domain.PlanExercise) {
	ex.Done = false
	ex.Weight = ""
	ex.WeightKg = ""
	ex.WeightLbs = ""
	ex.UserNote = ""
}

func (s *planService) ensureUser(ctx context.Context, userID int64) error {
	if userID == 0 {
		return fmt.Errorf("%w: userId is required", ErrValidationFailed)
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *planService) getPlan(ctx context.Context, id int64) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) GetPlan(ctx context.Context, actor Actor, id int64) (*domain.Plan, error) {
	plan, err := s.getPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(plan.UserID) {
		return nil, ErrForbidden
	}
	return plan, nil
}

// ListPlans returns a user's plans, newest date first.
func (s *planService) ListPlans(ctx context.Context, actor Actor, userID int64) ([]domain.Plan, error) {
	if !actor.CanAccess(userID) {
		return nil, ErrForbidden
	}
	return s.planRepo.ListByUser(ctx, userID)
}

// UpdatePlan replaces title and exercise list. Logged results in the submitted
// list are kept as sent.
func (s *planService) UpdatePlan(ctx context.Context, id int64, title string, exercises []domain.PlanExercise) (*domain.Plan, error) {
	plan, err := s.getPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if err := validatePlan(title, plan.Date, exercises); err != nil {
		return nil, err
	}

	plan.Title = title
	plan.Exercises = planner.Normalize(exercises)
	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// ToggleExercise marks one exercise done or undone and records the logged
// weight and note. An undone exercise keeps no weight.
func (s *planService) ToggleExercise(ctx context.Context, actor Actor, planID int64, in ToggleInput) (*domain.Plan, error) {
	plan, err := s.GetPlan(ctx, actor, planID)
	if err != nil {
		return nil, err
	}

	idx := -1
	switch {
	case in.ExerciseID != "":
		_, idx, _ = lo.FindIndexOf(plan.Exercises, func(ex domain.PlanExercise) bool {
			return ex.ID == in.ExerciseID
		})
	case in.ExerciseIndex != nil:
		idx = *in.ExerciseIndex
	}
	if idx < 0 || idx >= len(plan.Exercises) {
		return nil, ErrExerciseIndexInvalid
	}

	ex := &plan.Exercises[idx]
	ex.Done = in.Done
	if in.Done {
		ex.WeightKg, ex.WeightLbs = domain.CompleteWeightPair(in.WeightKg, in.WeightLbs)
	} else {
		ex.Weight, ex.WeightKg, ex.WeightLbs = "", "", ""
	}
	if in.UserNote != nil {
		ex.UserNote = strings.TrimSpace(*in.UserNote)
	}

	if err := s.planRepo.UpdateExercises(ctx, plan.ID, plan.Exercises); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) DeletePlan(ctx context.Context, id int64) error {
	if err := s.planRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

// ClonePlan copies a plan to a new date, for the same or another user.
// Cloning onto the same user refuses a date that already holds a plan.
func (s *planService) ClonePlan(ctx context.Context, id int64, in CloneInput) (*domain.Plan, error) {
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: target date is required", ErrValidationFailed)
	}
	src, err := s.getPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	var clone *domain.Plan
	if in.UserID == 0 || in.UserID == src.UserID {
		existing, err := s.planRepo.ListByUserAndDate(ctx, src.UserID, in.Date)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, ErrDateOccupied
		}
		clone = planner.CloneToDate(src, in.Date)
	} else {
		if err := s.ensureUser(ctx, in.UserID); err != nil {
			return nil, err
		}
		clone = planner.CloneToUser(src, in.UserID, in.Date)
	}

	if _, err := s.planRepo.Create(ctx, clone); err != nil {
		return nil, fmt.Errorf("create clone: %w", err)
	}
	log.Debug("plan cloned", "source", src.ID, "clone", clone.ID, "user", clone.UserID)
	return clone, nil
}
