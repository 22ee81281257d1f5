package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ptcoach/fitness-planner/internal/repository"
)

const counterCollectionName = "counters"

type mongoCounterRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMongoCounterRepository returns a counter backed by one document per sequence.
func NewMongoCounterRepository(db *mongo.Database) repository.CounterRepository {
	return &mongoCounterRepository{
		db:         db,
		collection: db.Collection(counterCollectionName),
	}
}

type counterDoc struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

// Next atomically increments the sequence and returns the new value, starting at 1.
func (r *mongoCounterRepository) Next(ctx context.Context, sequence string) (int64, error) {
	return r.upsert(ctx, sequence, bson.M{"$inc": bson.M{"value": int64(1)}})
}

// Sync reads the highest id in the collection named after sequence and lifts
// the counter to it. A counter already past that id is left alone.
func (r *mongoCounterRepository) Sync(ctx context.Context, sequence string) (int64, error) {
	findOptions := options.FindOne().
		SetSort(bson.D{{Key: "id", Value: -1}}).
		SetProjection(bson.M{"id": 1})

	var top struct {
		ID int64 `bson:"id"`
	}
	err := r.db.Collection(sequence).FindOne(ctx, bson.M{}, findOptions).Decode(&top)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("max id of %s: %w", sequence, err)
	}
	return r.upsert(ctx, sequence, bson.M{"$max": bson.M{"value": top.ID}})
}

func (r *mongoCounterRepository) upsert(ctx context.Context, sequence string, update bson.M) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": sequence}, update, opts).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Value, nil
}
