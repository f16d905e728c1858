package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nafood/nafood-backend-go/models"
)

type Users struct {
	db       *mongo.Database
	counters *Counters
}

func NewUsers(db *mongo.Database, counters *Counters) *Users {
	return &Users{db: db, counters: counters}
}

func (r *Users) collection() *mongo.Collection {
	return r.db.Collection("users")
}

func (r *Users) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Users) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Users) Create(ctx context.Context, user *models.User) error {
	id, err := r.counters.NextID(ctx, "users")
	if err != nil {
		return err
	}

	now := time.Now()
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = r.collection().InsertOne(ctx, user)
	return err
}

func (r *Users) Update(ctx context.Context, id int64, fields bson.M) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	var user models.User
	err := r.collection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Users) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
