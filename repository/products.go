package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nafood/nafood-backend-go/models"
)

type ProductFilter struct {
	Category  string
	Search    string
	Available *bool
}

type Products struct {
	db       *mongo.Database
	counters *Counters
}

func NewProducts(db *mongo.Database, counters *Counters) *Products {
	return &Products{db: db, counters: counters}
}

func (r *Products) collection() *mongo.Collection {
	return r.db.Collection("products")
}

func (r *Products) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		filter["name"] = bson.M{"$regex": f.Search, "$options": "i"}
	}
	if f.Available != nil {
		filter["available"] = *f.Available
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Products) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Products) Create(ctx context.Context, product *models.Product) error {
	id, err := r.counters.NextID(ctx, "products")
	if err != nil {
		return err
	}

	now := time.Now()
	product.ID = id
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err = r.collection().InsertOne(ctx, product)
	return err
}

func (r *Products) Update(ctx context.Context, id int64, fields bson.M) (*models.Product, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	var product models.Product
	err := r.collection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// AddSold bumps the sold counter, called once per line item on checkout.
func (r *Products) AddSold(ctx context.Context, id int64, quantity int) error {
	_, err := r.collection().UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"sold": int64(quantity)}},
	)
	return err
}

func (r *Products) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
