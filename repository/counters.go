package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nafood/nafood-backend-go/models"
)

// Counters allocates sequential integer ids per collection. Ids handed out
// but never used leave gaps, which is acceptable.
type Counters struct {
	db *mongo.Database
}

func NewCounters(db *mongo.Database) *Counters {
	return &Counters{db: db}
}

// NextID increments and returns the sequence for the named collection.
// A missing counter document is seeded from the collection's current max _id
// before the increment, so the allocator survives a dropped counters
// collection.
func (c *Counters) NextID(ctx context.Context, collection string) (int64, error) {
	coll := c.db.Collection("counters")

	var counter models.Counter
	err := coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&counter)
	if err == nil {
		return counter.Seq, nil
	}
	if err != mongo.ErrNoDocuments {
		return 0, err
	}

	seed, err := c.maxID(ctx, collection)
	if err != nil {
		return 0, err
	}

	_, err = coll.InsertOne(ctx, models.Counter{ID: collection, Seq: seed})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		// Duplicate key means another request seeded it first; anything
		// else is a real failure.
		return 0, err
	}

	err = coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (c *Counters) maxID(ctx context.Context, collection string) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetProjection(bson.M{"_id": 1})

	var doc struct {
		ID int64 `bson:"_id"`
	}
	err := c.db.Collection(collection).FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.ID, nil
}
