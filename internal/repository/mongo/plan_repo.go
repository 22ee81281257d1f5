package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/repository"
)

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
	counters   repository.CounterRepository
}

// NewMongoPlanRepository creates a new plan repository.
func NewMongoPlanRepository(db *mongo.Database, counters repository.CounterRepository) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
		counters:   counters,
	}
}

// Create inserts a new plan and assigns it the next numeric id.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.Plan) (int64, error) {
	if plan.UserID == 0 || plan.Date.IsZero() {
		return 0, errors.New("plan requires userId and date")
	}

	id, err := r.counters.Next(ctx, repository.PlanSequence)
	if err != nil {
		return 0, fmt.Errorf("next plan id: %w", err)
	}
	plan.ID = id
	plan.Date = domain.DateOf(plan.Date)
	if plan.Status == "" {
		plan.Status = domain.PlanStatusActive
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if _, err = r.collection.InsertOne(ctx, plan); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

// GetByID retrieves a single plan by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id int64) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListByUser retrieves all plans of a user, newest date first.
func (r *mongoPlanRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Plan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "id", Value: -1}})
	return r.find(ctx, bson.M{"userId": userID}, findOptions)
}

// ListByUserAndDate retrieves the plans of a user on one calendar day, in creation order.
func (r *mongoPlanRepository) ListByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]domain.Plan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	return r.find(ctx, bson.M{"userId": userID, "date": domain.DateOf(date)}, findOptions)
}

// ListWithLegacyWeights finds plans that still carry a free-text weight without a kg value.
func (r *mongoPlanRepository) ListWithLegacyWeights(ctx context.Context) ([]domain.Plan, error) {
	filter := bson.M{
		"exercises": bson.M{"$elemMatch": bson.M{
			"weight":   bson.M{"$nin": bson.A{"", nil}},
			"weightKg": bson.M{"$in": bson.A{"", nil}},
		}},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

// ListWithUnnormalizedDates finds plans whose date carries a time of day,
// as written by clients that posted local midnight.
func (r *mongoPlanRepository) ListWithUnnormalizedDates(ctx context.Context) ([]domain.Plan, error) {
	filter := bson.M{
		"date": bson.M{"$type": "date"},
		"$expr": bson.M{"$or": bson.A{
			bson.M{"$ne": bson.A{bson.M{"$hour": "$date"}, 0}},
			bson.M{"$ne": bson.A{bson.M{"$minute": "$date"}, 0}},
			bson.M{"$ne": bson.A{bson.M{"$second": "$date"}, 0}},
			bson.M{"$ne": bson.A{bson.M{"$millisecond": "$date"}, 0}},
		}},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

func (r *mongoPlanRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Plan, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.Plan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update replaces the title and the exercise list of a plan.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	if plan.ID == 0 {
		return errors.New("plan ID is required for update")
	}
	plan.UpdatedAt = time.Now().UTC()
	return r.updateOne(ctx, plan.ID, bson.M{
		"$set": bson.M{
			"title":     plan.Title,
			"exercises": plan.Exercises,
			"updatedAt": plan.UpdatedAt,
		},
	})
}

// UpdateExercises rewrites the exercise list only. Concurrent writers: last write wins.
func (r *mongoPlanRepository) UpdateExercises(ctx context.Context, id int64, exercises []domain.PlanExercise) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{
			"exercises": exercises,
			"updatedAt": time.Now().UTC(),
		},
	})
}

// SetDate moves a plan to another calendar day.
func (r *mongoPlanRepository) SetDate(ctx context.Context, id int64, date time.Time) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{
			"date":      domain.DateOf(date),
			"updatedAt": time.Now().UTC(),
		},
	})
}

func (r *mongoPlanRepository) updateOne(ctx context.Context, id int64, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a plan.
func (r *mongoPlanRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Calendar and day lookups.
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
		},
		{
			// History lookups by exercise name.
			Keys: bson.D{{Key: "exercises.name", Value: 1}},
		},
	})
}
