package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/planner"
	"ptcoach/fitness-planner/internal/repository"
)

// DayResolution tells the editor what to open for a clicked day.
type DayResolution struct {
	Date       time.Time             `json:"date"`
	Status     planner.Status        `json:"status"`
	Selectable bool                  `json:"selectable"`
	Mode       string                `json:"mode"` // "edit" or "create"
	PlanID     int64                 `json:"planId,omitempty"`
	Title      string                `json:"title"`
	Exercises  []domain.PlanExercise `json:"exercises"`
}

const (
	DayModeEdit   = "edit"
	DayModeCreate = "create"
)

// ProgressService derives read models from a user's plans: history,
// last results, stats and calendars.
type ProgressService interface {
	History(ctx context.Context, actor Actor, userID int64) (planner.History, error)
	LastInstance(ctx context.Context, actor Actor, userID int64, exerciseName string) (planner.LastInstance, bool, error)
	Stats(ctx context.Context, actor Actor, userID int64) (planner.Stats, error)
	Calendar(ctx context.Context, actor Actor, userID int64, year int, month time.Month, cloning bool) ([]planner.CalendarDay, error)
	ResolveDay(ctx context.Context, actor Actor, userID int64, date time.Time) (*DayResolution, error)
}

type progressService struct {
	planRepo repository.PlanRepository
	now      Clock
	loc      *time.Location
}

// NewProgressService builds the service. loc decides which calendar day is today.
func NewProgressService(planRepo repository.PlanRepository, now Clock, loc *time.Location) ProgressService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &progressService{planRepo: planRepo, now: now, loc: loc}
}

func (s *progressService) today() time.Time {
	return domain.Today(s.now(), s.loc)
}

func (s *progressService) plans(ctx context.Context, actor Actor, userID int64) ([]domain.Plan, error) {
	if !actor.CanAccess(userID) {
		return nil, ErrForbidden
	}
	plans, err := s.planRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// History returns the per-exercise timeline, each bucket sorted by date.
func (s *progressService) History(ctx context.Context, actor Actor, userID int64) (planner.History, error) {
	plans, err := s.plans(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	return planner.BuildHistory(plans).SortedByDate(), nil
}

// LastInstance reports the newest completed occurrence of exerciseName. The
// bool is false when the user never completed it.
func (s *progressService) LastInstance(ctx context.Context, actor Actor, userID int64, exerciseName string) (planner.LastInstance, bool, error) {
	if strings.TrimSpace(exerciseName) == "" {
		return planner.LastInstance{}, false, fmt.Errorf("%w: exercise name is required", ErrValidationFailed)
	}
	plans, err := s.plans(ctx, actor, userID)
	if err != nil {
		return planner.LastInstance{}, false, err
	}
	inst, ok := planner.LastCompletedInstance(plans, exerciseName)
	return inst, ok, nil
}

func (s *progressService) Stats(ctx context.Context, actor Actor, userID int64) (planner.Stats, error) {
	plans, err := s.plans(ctx, actor, userID)
	if err != nil {
		return planner.Stats{}, err
	}
	return planner.ComputeStats(plans, s.today()), nil
}

func (s *progressService) Calendar(ctx context.Context, actor Actor, userID int64, year int, month time.Month, cloning bool) ([]planner.CalendarDay, error) {
	if month < time.January || month > time.December || year < 1 {
		return nil, fmt.Errorf("%w: invalid year or month", ErrValidationFailed)
	}
	plans, err := s.plans(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	return planner.BuildMonth(year, month, plans, s.today(), cloning), nil
}

// ResolveDay opens the first unfinished plan of the day for editing, or an
// empty create form.
func (s *progressService) ResolveDay(ctx context.Context, actor Actor, userID int64, date time.Time) (*DayResolution, error) {
	if !actor.CanAccess(userID) {
		return nil, ErrForbidden
	}
	day := domain.DateOf(date)
	dayPlans, err := s.planRepo.ListByUserAndDate(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	today := s.today()
	session := planner.ResolveDay(day, dayPlans)
	res := &DayResolution{
		Date:       day,
		Status:     planner.DayStatus(dayPlans, today),
		Selectable: planner.Selectable(day, today, dayPlans, false),
		Mode:       DayModeCreate,
		Title:      session.Title,
		Exercises:  session.Exercises(),
	}
	if session.PlanID != 0 {
		res.Mode = DayModeEdit
		res.PlanID = session.PlanID
	}
	return res, nil
}
