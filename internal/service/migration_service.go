package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/repository"
)

// MigrationReport summarises a weight migration run.
type MigrationReport struct {
	PlansScanned     int
	PlansUpdated     int
	ExercisesUpdated int
}

// LegacyReport summarises a legacy data migration run.
type LegacyReport struct {
	UsersBackfilled int
	// UsersSkipped counts rows whose username collides case-insensitively with another account.
	UsersSkipped int
	PlansRedated int
	// Sequences holds each counter after syncing. Empty on a dry run.
	Sequences map[string]int64
}

// MigrationService upgrades rows written by the previous server.
type MigrationService interface {
	// MigrateWeights converts legacy free-text weights ("80kg") into the kg/lbs pair.
	MigrateWeights(ctx context.Context, dryRun bool) (MigrationReport, error)
	// MigrateLegacy backfills user lookup fields, moves plan dates to midnight
	// UTC and lifts id counters past the ids already stored.
	MigrateLegacy(ctx context.Context, dryRun bool) (LegacyReport, error)
}

type migrationService struct {
	planRepo repository.PlanRepository
	userRepo repository.UserRepository
	counters repository.CounterRepository
	loc      *time.Location
}

// NewMigrationService wires the migrations. loc is the zone legacy clients
// stored their local midnight in.
func NewMigrationService(planRepo repository.PlanRepository, userRepo repository.UserRepository, counters repository.CounterRepository, loc *time.Location) MigrationService {
	if loc == nil {
		loc = time.UTC
	}
	return &migrationService{planRepo: planRepo, userRepo: userRepo, counters: counters, loc: loc}
}

// MigrateWeights fills weightKg/weightLbs where only the legacy weight is set.
// Values that do not parse are left alone. Running it twice changes nothing.
func (s *migrationService) MigrateWeights(ctx context.Context, dryRun bool) (MigrationReport, error) {
	var report MigrationReport

	plans, err := s.planRepo.ListWithLegacyWeights(ctx)
	if err != nil {
		return report, fmt.Errorf("list plans: %w", err)
	}
	report.PlansScanned = len(plans)

	for i := range plans {
		plan := &plans[i]
		changed := 0
		for j := range plan.Exercises {
			if plan.Exercises[j].MigrateLegacyWeight() {
				changed++
			}
		}
		if changed == 0 {
			continue
		}
		if !dryRun {
			if err := s.planRepo.UpdateExercises(ctx, plan.ID, plan.Exercises); err != nil {
				return report, fmt.Errorf("update plan %d: %w", plan.ID, err)
			}
		}
		report.PlansUpdated++
		report.ExercisesUpdated += changed
		log.Debug("migrated plan weights", "plan", plan.ID, "exercises", changed, "dryRun", dryRun)
	}
	return report, nil
}

// MigrateLegacy is idempotent: a second run finds nothing left to change.
func (s *migrationService) MigrateLegacy(ctx context.Context, dryRun bool) (LegacyReport, error) {
	var report LegacyReport

	if err := s.backfillUsers(ctx, dryRun, &report); err != nil {
		return report, err
	}
	if err := s.redatePlans(ctx, dryRun, &report); err != nil {
		return report, err
	}
	if dryRun {
		return report, nil
	}

	report.Sequences = make(map[string]int64, 3)
	for _, seq := range []string{repository.UserSequence, repository.ExerciseSequence, repository.PlanSequence} {
		value, err := s.counters.Sync(ctx, seq)
		if err != nil {
			return report, fmt.Errorf("sync %s counter: %w", seq, err)
		}
		report.Sequences[seq] = value
	}
	return report, nil
}

// backfillUsers keeps an explicit isActive=false and treats a missing flag as active.
func (s *migrationService) backfillUsers(ctx context.Context, dryRun bool, report *LegacyReport) error {
	users, err := s.userRepo.ListLegacy(ctx)
	if err != nil {
		return fmt.Errorf("list legacy users: %w", err)
	}

	claimed := make(map[string]int64, len(users))
	for _, u := range users {
		key := domain.NormalizeUsername(u.Username)
		active := u.IsActive == nil || *u.IsActive

		if owner, ok := claimed[key]; ok && owner != u.ID {
			s.skipUser(u, "duplicate of legacy user", owner, report)
			continue
		}
		existing, err := s.userRepo.GetByUsername(ctx, key)
		switch {
		case err == nil && existing.ID != u.ID:
			s.skipUser(u, "duplicate of user", existing.ID, report)
			continue
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("look up %q: %w", u.Username, err)
		}
		claimed[key] = u.ID

		if !dryRun {
			err := s.userRepo.Backfill(ctx, u.ID, key, active)
			if errors.Is(err, repository.ErrDuplicate) {
				s.skipUser(u, "duplicate key on write", 0, report)
				continue
			}
			if err != nil {
				return fmt.Errorf("backfill user %d: %w", u.ID, err)
			}
		}
		report.UsersBackfilled++
		log.Debug("backfilled legacy user", "user", u.ID, "active", active, "dryRun", dryRun)
	}
	return nil
}

func (s *migrationService) skipUser(u repository.LegacyUser, reason string, other int64, report *LegacyReport) {
	report.UsersSkipped++
	log.Warn("skipping legacy user, rename it and rerun", "user", u.ID, "username", u.Username, "reason", reason, "other", other)
}

// redatePlans reads each stored instant as local midnight in s.loc.
func (s *migrationService) redatePlans(ctx context.Context, dryRun bool, report *LegacyReport) error {
	plans, err := s.planRepo.ListWithUnnormalizedDates(ctx)
	if err != nil {
		return fmt.Errorf("list plans with unnormalized dates: %w", err)
	}

	for _, plan := range plans {
		day := domain.DateOf(plan.Date.In(s.loc))
		if !dryRun {
			if err := s.planRepo.SetDate(ctx, plan.ID, day); err != nil {
				return fmt.Errorf("redate plan %d: %w", plan.ID, err)
			}
		}
		report.PlansRedated++
		log.Debug("redated legacy plan", "plan", plan.ID, "from", plan.Date, "to", day, "dryRun", dryRun)
	}
	return nil
}
