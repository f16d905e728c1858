package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/nafood/nafood-backend-go/middleware"
	"github.com/nafood/nafood-backend-go/models"
	"github.com/nafood/nafood-backend-go/policy"
	"github.com/nafood/nafood-backend-go/repository"
)

type ReviewHandler struct {
	reviews ReviewStore
	orders  OrderStore
}

func NewReviewHandler(reviews ReviewStore, orders OrderStore) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, orders: orders}
}

// List is public: product pages filter by productId and approved=true, the
// admin moderation queue by approved=pending.
func (h *ReviewHandler) List(c echo.Context) error {
	filter := repository.ReviewFilter{}

	productID, err := queryInt64(c, "productId")
	if err != nil {
		return invalidID(c)
	}
	filter.ProductID = productID

	userID, err := queryInt64(c, "userId")
	if err != nil {
		return invalidID(c)
	}
	filter.UserID = userID

	switch approved := c.QueryParam("approved"); approved {
	case "", "true", "false", "pending":
		filter.Approved = approved
	default:
		return errorJSON(c, http.StatusBadRequest, "Trạng thái duyệt không hợp lệ")
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	reviews, err := h.reviews.List(ctx, filter)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tải danh sách đánh giá")
	}
	return c.JSON(http.StatusOK, reviews)
}

type createReviewRequest struct {
	ProductID int64  `json:"productId"`
	OrderID   int64  `json:"orderId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Create runs the eligibility chain: the order must exist, belong to the
// caller and be delivered, and the caller must not have a non-rejected
// review of the product yet. Each failure has its own message.
func (h *ReviewHandler) Create(c echo.Context) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "Chưa đăng nhập")
	}

	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return errorJSON(c, http.StatusBadRequest, "Điểm đánh giá phải từ 1 đến 5")
	}
	if req.Comment == "" {
		return errorJSON(c, http.StatusBadRequest, "Vui lòng nhập nội dung đánh giá")
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	order, err := h.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể kiểm tra đơn hàng")
	}

	// The duplicate lookup only matters for an order that exists; a missing
	// order is rejected by the chain before the check is reached.
	var existing *models.Review
	if order != nil {
		existing, err = h.reviews.FindByUserAndProduct(ctx, callerID, req.ProductID)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "Không thể kiểm tra đánh giá")
		}
	}

	if d := policy.ValidateReviewCreate(order, callerID, existing); d != nil {
		return errorJSON(c, d.Status, d.Message)
	}

	review := models.Review{
		UserID:    callerID,
		ProductID: req.ProductID,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.reviews.Create(ctx, &review); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tạo đánh giá")
	}

	return c.JSON(http.StatusCreated, review)
}

type moderateReviewRequest struct {
	Approved *bool `json:"approved"`
}

// Moderate sets the tri-state approval flag. Routed admin-only; any
// transition between pending, approved and rejected is allowed.
func (h *ReviewHandler) Moderate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	var req moderateReviewRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	review, err := h.reviews.Update(ctx, id, bson.M{"approved": req.Approved})
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể cập nhật đánh giá")
	}
	if review == nil {
		return errorJSON(c, http.StatusNotFound, "Đánh giá không tồn tại")
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	deleted, err := h.reviews.Delete(ctx, id)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể xóa đánh giá")
	}
	if !deleted {
		return errorJSON(c, http.StatusNotFound, "Đánh giá không tồn tại")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Đã xóa đánh giá"})
}
