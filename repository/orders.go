package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nafood/nafood-backend-go/models"
)

const (
	orderCreateAttempts = 3
	orderCreateBackoff  = 100 * time.Millisecond
)

type OrderFilter struct {
	UserID *int64
	Status models.OrderStatus
}

type Orders struct {
	db       *mongo.Database
	counters *Counters
}

func NewOrders(db *mongo.Database, counters *Counters) *Orders {
	return &Orders{db: db, counters: counters}
}

func (r *Orders) collection() *mongo.Collection {
	return r.db.Collection("orders")
}

// List returns orders newest-first, optionally scoped to one user and/or
// one status.
func (r *Orders) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	filter := bson.M{}
	if f.UserID != nil {
		filter["userId"] = *f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Orders) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create allocates an id, forces the status to pending, stamps both
// timestamps and inserts. Two checkouts racing on the same allocated id show
// up as a duplicate-key error; the insert re-allocates and retries with
// linear backoff before giving up.
func (r *Orders) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.Status = models.OrderStatusPending
	order.CreatedAt = now
	order.UpdatedAt = now

	var lastErr error
	for attempt := 1; attempt <= orderCreateAttempts; attempt++ {
		id, err := r.counters.NextID(ctx, "orders")
		if err != nil {
			return err
		}
		order.ID = id

		_, err = r.collection().InsertOne(ctx, order)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return err
		}
		lastErr = err
		if attempt < orderCreateAttempts {
			time.Sleep(orderCreateBackoff * time.Duration(attempt))
		}
	}
	return fmt.Errorf("create order: exhausted %d attempts: %w", orderCreateAttempts, lastErr)
}

// Update applies a partial $set and returns the updated document. UpdatedAt
// is always stamped. Returns nil when the order does not exist.
func (r *Orders) Update(ctx context.Context, id int64, fields bson.M) (*models.Order, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	var order models.Order
	err := r.collection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Orders) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
