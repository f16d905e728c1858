package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/nafood/nafood-backend-go/middleware"
	"github.com/nafood/nafood-backend-go/models"
	"github.com/nafood/nafood-backend-go/policy"
	"github.com/nafood/nafood-backend-go/repository"
)

type OrderHandler struct {
	orders   OrderStore
	products ProductStore
}

func NewOrderHandler(orders OrderStore, products ProductStore) *OrderHandler {
	return &OrderHandler{orders: orders, products: products}
}

// List returns the caller's orders newest-first. Staff and admin get the
// full list when they pass ?admin=true; otherwise everyone is scoped to
// their own orders. ?status= narrows further.
func (h *OrderHandler) List(c echo.Context) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "Chưa đăng nhập")
	}
	role := middleware.CallerRole(c)

	filter := repository.OrderFilter{}
	if status := c.QueryParam("status"); status != "" {
		s := models.OrderStatus(status)
		if !s.IsValid() {
			return errorJSON(c, http.StatusBadRequest, "Trạng thái không hợp lệ")
		}
		filter.Status = s
	}
	if !(role.IsStaff() && c.QueryParam("admin") == "true") {
		filter.UserID = &callerID
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	orders, err := h.orders.List(ctx, filter)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tải danh sách đơn hàng")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "Chưa đăng nhập")
	}

	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	order, err := h.orders.GetByID(ctx, id)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tải đơn hàng")
	}
	if order == nil {
		return errorJSON(c, http.StatusNotFound, "Đơn hàng không tồn tại")
	}

	if d := policy.AuthorizeOrderRead(middleware.CallerRole(c), callerID, order); d != nil {
		return errorJSON(c, d.Status, d.Message)
	}
	return c.JSON(http.StatusOK, order)
}

type createOrderRequest struct {
	Items           []models.OrderItem   `json:"items"`
	Total           float64              `json:"total"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod"`
	CustomerName    string               `json:"customerName"`
	CustomerPhone   string               `json:"customerPhone"`
	CustomerAddress string               `json:"customerAddress"`
	Notes           string               `json:"notes"`
}

// Create handles checkout. The item list is stored as-is: a snapshot of
// name/price/image at order time, deliberately immune to later product
// edits. userId comes from the token, never from the body.
func (h *OrderHandler) Create(c echo.Context) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "Chưa đăng nhập")
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}

	if len(req.Items) == 0 {
		return errorJSON(c, http.StatusBadRequest, "Giỏ hàng trống")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return errorJSON(c, http.StatusBadRequest, "Số lượng sản phẩm không hợp lệ")
		}
	}
	if !req.PaymentMethod.IsValid() {
		return errorJSON(c, http.StatusBadRequest, "Phương thức thanh toán không hợp lệ")
	}
	if req.CustomerName == "" || req.CustomerPhone == "" || req.CustomerAddress == "" {
		return errorJSON(c, http.StatusBadRequest, "Vui lòng nhập đầy đủ thông tin giao hàng")
	}

	order := models.Order{
		UserID:          callerID,
		Items:           req.Items,
		Total:           req.Total,
		PaymentMethod:   req.PaymentMethod,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Notes:           req.Notes,
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	if err := h.orders.Create(ctx, &order); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tạo đơn hàng")
	}

	// Sold counters are best-effort bookkeeping; the order stands either way.
	for _, item := range order.Items {
		if err := h.products.AddSold(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("add sold for product %d: %v", item.ProductID, err)
		}
	}

	return c.JSON(http.StatusCreated, order)
}

type updateOrderRequest struct {
	Status          *models.OrderStatus `json:"status"`
	Notes           *string             `json:"notes"`
	CustomerName    *string             `json:"customerName"`
	CustomerPhone   *string             `json:"customerPhone"`
	CustomerAddress *string             `json:"customerAddress"`
}

// Update applies a partial update under the order policy: users may only
// cancel their own pending orders, staff and admin transition freely.
func (h *OrderHandler) Update(c echo.Context) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "Chưa đăng nhập")
	}

	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	var req updateOrderRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if req.Status != nil && !req.Status.IsValid() {
		return errorJSON(c, http.StatusBadRequest, "Trạng thái không hợp lệ")
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	order, err := h.orders.GetByID(ctx, id)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tải đơn hàng")
	}
	if order == nil {
		return errorJSON(c, http.StatusNotFound, "Đơn hàng không tồn tại")
	}

	upd := policy.OrderUpdate{
		OtherFields: req.Notes != nil || req.CustomerName != nil ||
			req.CustomerPhone != nil || req.CustomerAddress != nil,
	}
	if req.Status != nil {
		upd.Status = *req.Status
	}
	if d := policy.AuthorizeOrderUpdate(middleware.CallerRole(c), callerID, order, upd); d != nil {
		return errorJSON(c, d.Status, d.Message)
	}

	fields := bson.M{}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.CustomerName != nil {
		fields["customerName"] = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		fields["customerPhone"] = *req.CustomerPhone
	}
	if req.CustomerAddress != nil {
		fields["customerAddress"] = *req.CustomerAddress
	}
	if len(fields) == 0 {
		return errorJSON(c, http.StatusBadRequest, "Không có thay đổi nào")
	}

	updated, err := h.orders.Update(ctx, id, fields)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể cập nhật đơn hàng")
	}
	if updated == nil {
		return errorJSON(c, http.StatusNotFound, "Đơn hàng không tồn tại")
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes an order outright. Routed admin-only.
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	deleted, err := h.orders.Delete(ctx, id)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể xóa đơn hàng")
	}
	if !deleted {
		return errorJSON(c, http.StatusNotFound, "Đơn hàng không tồn tại")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Đã xóa đơn hàng"})
}
