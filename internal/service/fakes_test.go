package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/repository"
)

// In-memory repositories. Values are copied in and out so tests observe
// only what was persisted.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
	// activeMissing marks legacy rows stored without an isActive field.
	activeMissing map[int64]bool

	updatedPasswords int
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]domain.User), activeMissing: make(map[int64]bool)}
	for _, u := range users {
		u.UsernameKey = domain.NormalizeUsername(u.Username)
		r.users[u.ID] = u
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.NormalizeUsername(user.Username)
	for _, u := range r.users {
		if u.UsernameKey == key {
			return 0, repository.ErrDuplicate
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.UsernameKey = key
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.NormalizeUsername(username)
	for _, u := range r.users {
		if u.UsernameKey == key {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) List(context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UsernameKey < out[j].UsernameKey })
	return out, nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = active
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	u.LegacyPassword = ""
	r.users[id] = u
	r.updatedPasswords++
	return nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// addLegacy stores u as the previous server wrote it: no lookup key, and no
// isActive field unless hasActive.
func (r *fakeUserRepo) addLegacy(u domain.User, hasActive bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.UsernameKey = ""
	if !hasActive {
		u.IsActive = false
		r.activeMissing[u.ID] = true
	}
	r.users[u.ID] = u
}

func (r *fakeUserRepo) ListLegacy(context.Context) ([]repository.LegacyUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []repository.LegacyUser{}
	for _, u := range r.users {
		if u.UsernameKey != "" && !r.activeMissing[u.ID] {
			continue
		}
		lu := repository.LegacyUser{ID: u.ID, Username: u.Username}
		if !r.activeMissing[u.ID] {
			active := u.IsActive
			lu.IsActive = &active
		}
		out = append(out, lu)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Backfill(_ context.Context, id int64, usernameKey string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, other := range r.users {
		if other.ID != id && other.UsernameKey == usernameKey {
			return repository.ErrDuplicate
		}
	}
	u.UsernameKey = usernameKey
	u.IsActive = active
	r.users[id] = u
	delete(r.activeMissing, id)
	return nil
}

// fakeCounters syncs each sequence to the ids listed in maxIDs.
type fakeCounters struct {
	mu     sync.Mutex
	values map[string]int64
	maxIDs map[string]int64
}

func (c *fakeCounters) Next(_ context.Context, sequence string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[sequence]++
	return c.values[sequence], nil
}

func (c *fakeCounters) Sync(_ context.Context, sequence string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxIDs[sequence] > c.values[sequence] {
		c.values[sequence] = c.maxIDs[sequence]
	}
	return c.values[sequence], nil
}

type fakeExerciseRepo struct {
	mu        sync.Mutex
	nextID    int64
	exercises map[int64]domain.Exercise

	listCalls int
}

func newFakeExerciseRepo(exercises ...domain.Exercise) *fakeExerciseRepo {
	r := &fakeExerciseRepo{exercises: make(map[int64]domain.Exercise)}
	for _, e := range exercises {
		r.exercises[e.ID] = e
		if e.ID > r.nextID {
			r.nextID = e.ID
		}
	}
	return r
}

func (r *fakeExerciseRepo) Create(_ context.Context, e *domain.Exercise) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	r.exercises[e.ID] = *e
	return e.ID, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id int64) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *fakeExerciseRepo) List(context.Context) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := make([]domain.Exercise, 0, len(r.exercises))
	for _, e := range r.exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, e *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[e.ID]; !ok {
		return repository.ErrNotFound
	}
	r.exercises[e.ID] = *e
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

type fakePlanRepo struct {
	mu     sync.Mutex
	nextID int64
	plans  map[int64]domain.Plan
}

func newFakePlanRepo(plans ...domain.Plan) *fakePlanRepo {
	r := &fakePlanRepo{plans: make(map[int64]domain.Plan)}
	for _, p := range plans {
		r.plans[p.ID] = clonePlan(p)
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func clonePlan(p domain.Plan) domain.Plan {
	p.Exercises = append([]domain.PlanExercise(nil), p.Exercises...)
	return p
}

func (r *fakePlanRepo) Create(_ context.Context, p *domain.Plan) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.Date = domain.DateOf(p.Date)
	if p.Status == "" {
		p.Status = domain.PlanStatusActive
	}
	r.plans[p.ID] = clonePlan(*p)
	return p.ID, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id int64) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = clonePlan(p)
	return &p, nil
}

func (r *fakePlanRepo) filter(keep func(domain.Plan) bool) []domain.Plan {
	out := []domain.Plan{}
	for _, p := range r.plans {
		if keep(p) {
			out = append(out, clonePlan(p))
		}
	}
	return out
}

func (r *fakePlanRepo) ListByUser(_ context.Context, userID int64) ([]domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.filter(func(p domain.Plan) bool { return p.UserID == userID })
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakePlanRepo) ListByUserAndDate(_ context.Context, userID int64, date time.Time) ([]domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := domain.DateOf(date)
	out := r.filter(func(p domain.Plan) bool { return p.UserID == userID && p.Date.Equal(day) })
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlanRepo) Update(_ context.Context, p *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.plans[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = p.Title
	stored.Exercises = append([]domain.PlanExercise(nil), p.Exercises...)
	r.plans[p.ID] = stored
	return nil
}

func (r *fakePlanRepo) UpdateExercises(_ context.Context, id int64, exercises []domain.PlanExercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Exercises = append([]domain.PlanExercise(nil), exercises...)
	r.plans[id] = stored
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

func (r *fakePlanRepo) ListWithLegacyWeights(context.Context) ([]domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.filter(func(p domain.Plan) bool {
		for _, ex := range p.Exercises {
			if ex.Weight != "" && ex.WeightKg == "" {
				return true
			}
		}
		return false
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlanRepo) ListWithUnnormalizedDates(context.Context) ([]domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.filter(func(p domain.Plan) bool {
		return !p.Date.IsZero() && !p.Date.Equal(domain.DateOf(p.Date.UTC()))
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlanRepo) SetDate(_ context.Context, id int64, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Date = domain.DateOf(date)
	r.plans[id] = stored
	return nil
}

func (r *fakePlanRepo) stored(id int64) domain.Plan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clonePlan(r.plans[id])
}

type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (s *fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://s3.test/put/" + key, nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/get/" + key, nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}
