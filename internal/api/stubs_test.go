package api

import (
	"context"
	"errors"
	"time"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/planner"
	"ptcoach/fitness-planner/internal/service"
)

var errUnexpected = errors.New("connection reset by peer")

type stubAuthService struct {
	login func(username, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Login(_ context.Context, username, password string) (string, *domain.User, error) {
	return s.login(username, password)
}

func (s *stubAuthService) SeedAdmin(context.Context, string, string) (bool, error) {
	return false, nil
}

type stubUserService struct {
	users map[int64]*domain.User
}

func (s *stubUserService) CreateUser(_ context.Context, username, _ string, role domain.Role) (*domain.User, error) {
	u := &domain.User{ID: int64(len(s.users) + 1), Username: username, Role: role, IsActive: true}
	s.users[u.ID] = u
	return u, nil
}

func (s *stubUserService) GetUser(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserService) ListUsers(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserService) SetUserActive(ctx context.Context, id int64, active bool) (*domain.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsActive = active
	return u, nil
}

type stubExerciseService struct {
	upload func(id int64, fileName, contentType string) (*service.VideoUpload, error)
}

func (s *stubExerciseService) CreateExercise(_ context.Context, name, videoURL string) (*domain.Exercise, error) {
	return &domain.Exercise{ID: 1, Name: name, VideoURL: videoURL}, nil
}

func (s *stubExerciseService) GetExercise(context.Context, int64) (*domain.Exercise, error) {
	return nil, service.ErrExerciseNotFound
}

func (s *stubExerciseService) ListExercises(context.Context) ([]domain.Exercise, error) {
	return []domain.Exercise{{ID: 1, Name: "bench"}}, nil
}

func (s *stubExerciseService) UpdateExercise(context.Context, int64, string, string) (*domain.Exercise, error) {
	return nil, service.ErrExerciseNotFound
}

func (s *stubExerciseService) DeleteExercise(context.Context, int64) error {
	return nil
}

func (s *stubExerciseService) CreateVideoUpload(_ context.Context, id int64, fileName, contentType string) (*service.VideoUpload, error) {
	return s.upload(id, fileName, contentType)
}

// stubPlanService records the last call and answers with err when set.
type stubPlanService struct {
	err        error
	plan       *domain.Plan
	lastCreate service.CreatePlanInput
	lastToggle service.ToggleInput
	lastClone  service.CloneInput
	lastActor  service.Actor
}

func (s *stubPlanService) result() (*domain.Plan, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.plan, nil
}

func (s *stubPlanService) CreatePlan(_ context.Context, in service.CreatePlanInput) (*domain.Plan, error) {
	s.lastCreate = in
	return s.result()
}

func (s *stubPlanService) GetPlan(_ context.Context, actor service.Actor, _ int64) (*domain.Plan, error) {
	s.lastActor = actor
	return s.result()
}

func (s *stubPlanService) ListPlans(_ context.Context, actor service.Actor, _ int64) ([]domain.Plan, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Plan{*s.plan}, nil
}

func (s *stubPlanService) UpdatePlan(context.Context, int64, string, []domain.PlanExercise) (*domain.Plan, error) {
	return s.result()
}

func (s *stubPlanService) ToggleExercise(_ context.Context, actor service.Actor, _ int64, in service.ToggleInput) (*domain.Plan, error) {
	s.lastActor = actor
	s.lastToggle = in
	return s.result()
}

func (s *stubPlanService) DeletePlan(context.Context, int64) error {
	return s.err
}

func (s *stubPlanService) ClonePlan(_ context.Context, _ int64, in service.CloneInput) (*domain.Plan, error) {
	s.lastClone = in
	return s.result()
}

type stubProgressService struct {
	last      planner.LastInstance
	lastFound bool
}

func (s *stubProgressService) History(context.Context, service.Actor, int64) (planner.History, error) {
	return planner.History{}, nil
}

func (s *stubProgressService) LastInstance(_ context.Context, _ service.Actor, _ int64, name string) (planner.LastInstance, bool, error) {
	if name == "" {
		return planner.LastInstance{}, false, service.ErrValidationFailed
	}
	return s.last, s.lastFound, nil
}

func (s *stubProgressService) Stats(context.Context, service.Actor, int64) (planner.Stats, error) {
	return planner.Stats{}, nil
}

func (s *stubProgressService) Calendar(_ context.Context, actor service.Actor, userID int64, year int, month time.Month, cloning bool) ([]planner.CalendarDay, error) {
	if actor.Role != domain.RoleAdmin && actor.UserID != userID {
		return nil, service.ErrForbidden
	}
	day := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return []planner.CalendarDay{{Date: day, Status: planner.StatusEmpty, Selectable: true, CloneTarget: cloning}}, nil
}

func (s *stubProgressService) ResolveDay(_ context.Context, _ service.Actor, _ int64, date time.Time) (*service.DayResolution, error) {
	return &service.DayResolution{Date: domain.DateOf(date), Mode: service.DayModeCreate, Exercises: []domain.PlanExercise{}}, nil
}
