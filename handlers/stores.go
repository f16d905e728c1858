package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/nafood/nafood-backend-go/models"
	"github.com/nafood/nafood-backend-go/repository"
)

// Store interfaces kept narrow so handlers can be exercised against fakes.
// The repository types satisfy them.

type OrderStore interface {
	List(ctx context.Context, f repository.OrderFilter) ([]models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, id int64, fields bson.M) (*models.Order, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type ReviewStore interface {
	List(ctx context.Context, f repository.ReviewFilter) ([]models.Review, error)
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	FindByUserAndProduct(ctx context.Context, userID, productID int64) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, id int64, fields bson.M) (*models.Review, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type ProductStore interface {
	List(ctx context.Context, f repository.ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id int64, fields bson.M) (*models.Product, error)
	AddSold(ctx context.Context, id int64, quantity int) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id int64, fields bson.M) (*models.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type BannerStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	GetByID(ctx context.Context, id int64) (*models.Banner, error)
	Create(ctx context.Context, banner *models.Banner) error
	Update(ctx context.Context, id int64, fields bson.M) (*models.Banner, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// requestCtx bounds every store call from a handler.
func requestCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 10*time.Second)
}
