package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/nafood/nafood-backend-go/middleware"
	"github.com/nafood/nafood-backend-go/models"
	"github.com/nafood/nafood-backend-go/repository"
)

// In-memory stores mirroring the repository contracts, so the handlers can
// be exercised without a running MongoDB.

type fakeOrderStore struct {
	orders map[int64]models.Order
	nextID int64
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[int64]models.Order{}}
}

func (s *fakeOrderStore) List(_ context.Context, f repository.OrderFilter) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range s.orders {
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id int64) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *fakeOrderStore) Create(_ context.Context, order *models.Order) error {
	s.nextID++
	now := time.Now()
	order.ID = s.nextID
	order.Status = models.OrderStatusPending
	order.CreatedAt = now
	order.UpdatedAt = now
	s.orders[order.ID] = *order
	return nil
}

func (s *fakeOrderStore) Update(_ context.Context, id int64, fields bson.M) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	for k, v := range fields {
		switch k {
		case "status":
			o.Status = v.(models.OrderStatus)
		case "notes":
			o.Notes = v.(string)
		case "customerName":
			o.CustomerName = v.(string)
		case "customerPhone":
			o.CustomerPhone = v.(string)
		case "customerAddress":
			o.CustomerAddress = v.(string)
		}
	}
	o.UpdatedAt = time.Now()
	s.orders[id] = o
	return &o, nil
}

func (s *fakeOrderStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := s.orders[id]; !ok {
		return false, nil
	}
	delete(s.orders, id)
	return true, nil
}

type fakeReviewStore struct {
	reviews   map[int64]models.Review
	nextID    int64
	createErr error // injected failure for Create
	findCalls int   // FindByUserAndProduct invocations
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: map[int64]models.Review{}}
}

func (s *fakeReviewStore) List(_ context.Context, f repository.ReviewFilter) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range s.reviews {
		if f.ProductID != nil && r.ProductID != *f.ProductID {
			continue
		}
		if f.UserID != nil && r.UserID != *f.UserID {
			continue
		}
		switch f.Approved {
		case "true":
			if r.Approved == nil || !*r.Approved {
				continue
			}
		case "false":
			if r.Approved == nil || *r.Approved {
				continue
			}
		case "pending":
			if r.Approved != nil {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeReviewStore) GetByID(_ context.Context, id int64) (*models.Review, error) {
	r, ok := s.reviews[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *fakeReviewStore) FindByUserAndProduct(_ context.Context, userID, productID int64) (*models.Review, error) {
	s.findCalls++
	for _, r := range s.reviews {
		if r.UserID == userID && r.ProductID == productID &&
			(r.Approved == nil || *r.Approved) {
			return &r, nil
		}
	}
	return nil, nil
}

func (s *fakeReviewStore) Create(_ context.Context, review *models.Review) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	now := time.Now()
	review.ID = s.nextID
	review.Approved = nil
	review.CreatedAt = now
	review.UpdatedAt = now
	s.reviews[review.ID] = *review
	return nil
}

func (s *fakeReviewStore) Update(_ context.Context, id int64, fields bson.M) (*models.Review, error) {
	r, ok := s.reviews[id]
	if !ok {
		return nil, nil
	}
	if v, ok := fields["approved"]; ok {
		if b, ok := v.(*bool); ok {
			r.Approved = b
		}
	}
	r.UpdatedAt = time.Now()
	s.reviews[id] = r
	return &r, nil
}

func (s *fakeReviewStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := s.reviews[id]; !ok {
		return false, nil
	}
	delete(s.reviews, id)
	return true, nil
}

type fakeProductStore struct {
	products map[int64]models.Product
	sold     map[int64]int
	nextID   int64
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[int64]models.Product{}, sold: map[int64]int{}}
}

func (s *fakeProductStore) List(_ context.Context, _ repository.ProductFilter) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeProductStore) GetByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *fakeProductStore) Create(_ context.Context, product *models.Product) error {
	s.nextID++
	product.ID = s.nextID
	s.products[product.ID] = *product
	return nil
}

func (s *fakeProductStore) Update(_ context.Context, id int64, _ bson.M) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *fakeProductStore) AddSold(_ context.Context, id int64, quantity int) error {
	s.sold[id] += quantity
	return nil
}

func (s *fakeProductStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

// newTestContext builds an echo context carrying the given caller identity.
func newTestContext(t *testing.T, method, target, body string, callerID int64, role models.Role) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	if callerID != 0 {
		c.Set(middleware.ContextUserID, callerID)
		c.Set(middleware.ContextRole, role)
	}
	return c, rec
}

type errorResponse struct {
	Error string `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Error
}
