package repository

import (
	"context"
	"time"

	"ptcoach/fitness-planner/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// Sequence names. Each matches the collection whose numeric ids it issues.
const (
	UserSequence     = "users"
	ExerciseSequence = "exercises"
	PlanSequence     = "plans"
)

// LegacyUser is a user row written before usernameKey and isActive were stored.
// IsActive is nil when the field is missing.
type LegacyUser struct {
	ID       int64  `bson:"id"`
	Username string `bson:"username"`
	IsActive *bool  `bson:"isActive"`
}

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	// UpdatePassword stores a new hash and drops any legacy plaintext password.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	// ListLegacy returns rows missing usernameKey or isActive.
	ListLegacy(ctx context.Context) ([]LegacyUser, error)
	// Backfill stores the lookup key and active flag of a legacy row.
	Backfill(ctx context.Context, id int64, usernameKey string, active bool) error
}

// ExerciseRepository defines the interface for interacting with the exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id int64) error
}

// PlanRepository is the plan store.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Plan, error)
	// ListByUser returns the user's plans, newest date first.
	ListByUser(ctx context.Context, userID int64) ([]domain.Plan, error)
	ListByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]domain.Plan, error)
	// Update replaces title and exercises. UserID and Date are immutable here.
	Update(ctx context.Context, plan *domain.Plan) error
	UpdateExercises(ctx context.Context, id int64, exercises []domain.PlanExercise) error
	Delete(ctx context.Context, id int64) error
	// ListWithLegacyWeights returns plans holding at least one exercise with a
	// free-text weight but no kg value.
	ListWithLegacyWeights(ctx context.Context) ([]domain.Plan, error)
	// ListWithUnnormalizedDates returns plans whose date is not midnight UTC.
	ListWithUnnormalizedDates(ctx context.Context) ([]domain.Plan, error)
	SetDate(ctx context.Context, id int64, date time.Time) error
}

// CounterRepository issues monotonically increasing numeric ids per sequence.
type CounterRepository interface {
	Next(ctx context.Context, sequence string) (int64, error)
	// Sync raises the sequence to at least the largest id stored in its
	// collection and returns the resulting value.
	Sync(ctx context.Context, sequence string) (int64, error)
}
