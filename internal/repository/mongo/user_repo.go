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

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
	counters   repository.CounterRepository
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
func NewMongoUserRepository(db *mongo.Database, counters repository.CounterRepository) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
		counters:   counters,
	}
}

// Create inserts a new user into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	if user.Username == "" || user.Role == "" {
		return 0, errors.New("username and role are required")
	}

	id, err := r.counters.Next(ctx, repository.UserSequence)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	user.ID = id
	user.UsernameKey = domain.NormalizeUsername(user.Username)
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err = r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

// GetByUsername retrieves a user by username, ignoring case.
func (r *mongoUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"usernameKey": domain.NormalizeUsername(username)})
}

// GetByID retrieves a user by their numeric id.
func (r *mongoUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns all users ordered by username.
func (r *mongoUserRepository) List(ctx context.Context) ([]domain.User, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "usernameKey", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []domain.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetActive toggles whether the user may log in. Users are never hard-deleted.
func (r *mongoUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()},
	})
}

// UpdatePassword replaces the hash and removes a legacy plaintext password.
func (r *mongoUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set":   bson.M{"passwordHash": passwordHash, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"password": ""},
	})
}

func (r *mongoUserRepository) updateOne(ctx context.Context, id int64, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountByRole counts users holding role.
func (r *mongoUserRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"role": role})
}

// ListLegacy finds rows created before usernameKey and isActive were written.
func (r *mongoUserRepository) ListLegacy(ctx context.Context) ([]repository.LegacyUser, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"usernameKey": bson.M{"$in": bson.A{"", nil}}},
		bson.M{"isActive": bson.M{"$exists": false}},
	}}
	findOptions := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []repository.LegacyUser{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Backfill writes the lookup key and active flag onto a legacy row.
func (r *mongoUserRepository) Backfill(ctx context.Context, id int64, usernameKey string, active bool) error {
	err := r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"usernameKey": usernameKey, "isActive": active, "updatedAt": time.Now().UTC()},
	})
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}

// EnsureUserIndexes creates necessary indexes for the users collection.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Case-insensitive uniqueness.
			Keys:    bson.D{{Key: "usernameKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
	})
}
