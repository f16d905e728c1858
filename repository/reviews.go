package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nafood/nafood-backend-go/models"
)

// Placeholders shown when the reviewing user or the reviewed product has
// been deleted since the review was written.
const (
	missingUserName    = "Người dùng"
	missingProductName = "Sản phẩm không tồn tại"
)

type ReviewFilter struct {
	ProductID *int64
	UserID    *int64
	// Approved filters on moderation state: "true", "false" or "pending"
	// (the tri-state null). Empty means no filter.
	Approved string
}

type Reviews struct {
	db       *mongo.Database
	counters *Counters
}

func NewReviews(db *mongo.Database, counters *Counters) *Reviews {
	return &Reviews{db: db, counters: counters}
}

func (r *Reviews) collection() *mongo.Collection {
	return r.db.Collection("reviews")
}

// List returns reviews newest-first, each enriched with the reviewer's
// display name/email and the product name. Enrichment is a read-time lookup;
// nothing denormalized is written back.
func (r *Reviews) List(ctx context.Context, f ReviewFilter) ([]models.Review, error) {
	filter := bson.M{}
	if f.ProductID != nil {
		filter["productId"] = *f.ProductID
	}
	if f.UserID != nil {
		filter["userId"] = *f.UserID
	}
	switch f.Approved {
	case "true":
		filter["approved"] = true
	case "false":
		filter["approved"] = false
	case "pending":
		filter["approved"] = nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}

	for i := range reviews {
		r.enrich(ctx, &reviews[i])
	}
	return reviews, nil
}

func (r *Reviews) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.enrich(ctx, &review)
	return &review, nil
}

// FindByUserAndProduct returns the caller's existing non-rejected review of
// the product, or nil. Rejected reviews do not block a resubmission.
func (r *Reviews) FindByUserAndProduct(ctx context.Context, userID, productID int64) (*models.Review, error) {
	var review models.Review
	err := r.collection().FindOne(ctx, bson.M{
		"userId":    userID,
		"productId": productID,
		"approved":  bson.M{"$ne": false},
	}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create assigns an id and inserts. Approved always starts as nil (awaiting
// moderation) no matter what the caller set.
func (r *Reviews) Create(ctx context.Context, review *models.Review) error {
	id, err := r.counters.NextID(ctx, "reviews")
	if err != nil {
		return err
	}

	now := time.Now()
	review.ID = id
	review.Approved = nil
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err = r.collection().InsertOne(ctx, review)
	return err
}

func (r *Reviews) Update(ctx context.Context, id int64, fields bson.M) (*models.Review, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	var review models.Review
	err := r.collection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.enrich(ctx, &review)
	return &review, nil
}

func (r *Reviews) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// enrich fills the display fields, degrading to placeholders when the user
// or product is gone.
func (r *Reviews) enrich(ctx context.Context, review *models.Review) {
	var user models.User
	err := r.db.Collection("users").
		FindOne(ctx, bson.M{"_id": review.UserID}).Decode(&user)
	if err != nil {
		review.UserName = missingUserName
	} else {
		review.UserName = user.Name
		review.UserEmail = user.Email
	}

	var product models.Product
	err = r.db.Collection("products").
		FindOne(ctx, bson.M{"_id": review.ProductID}).Decode(&product)
	if err != nil {
		review.ProductName = missingProductName
	} else {
		review.ProductName = product.Name
	}
}
