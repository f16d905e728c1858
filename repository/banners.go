package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nafood/nafood-backend-go/models"
)

type Banners struct {
	db       *mongo.Database
	counters *Counters
}

func NewBanners(db *mongo.Database, counters *Counters) *Banners {
	return &Banners{db: db, counters: counters}
}

func (r *Banners) collection() *mongo.Collection {
	return r.db.Collection("banners")
}

// List returns banners in carousel order. activeOnly is the public view;
// the admin panel lists everything.
func (r *Banners) List(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	banners := []models.Banner{}
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, err
	}
	return banners, nil
}

func (r *Banners) GetByID(ctx context.Context, id int64) (*models.Banner, error) {
	var banner models.Banner
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&banner)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *Banners) Create(ctx context.Context, banner *models.Banner) error {
	id, err := r.counters.NextID(ctx, "banners")
	if err != nil {
		return err
	}

	now := time.Now()
	banner.ID = id
	banner.CreatedAt = now
	banner.UpdatedAt = now

	_, err = r.collection().InsertOne(ctx, banner)
	return err
}

func (r *Banners) Update(ctx context.Context, id int64, fields bson.M) (*models.Banner, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	var banner models.Banner
	err := r.collection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&banner)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *Banners) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
