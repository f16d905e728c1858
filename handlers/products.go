package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/nafood/nafood-backend-go/models"
	"github.com/nafood/nafood-backend-go/repository"
)

type ProductHandler struct {
	products ProductStore
}

func NewProductHandler(products ProductStore) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(c echo.Context) error {
	filter := repository.ProductFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("q"),
	}
	if raw := c.QueryParam("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "Tham số available không hợp lệ")
		}
		filter.Available = &available
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	products, err := h.products.List(ctx, filter)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tải danh sách sản phẩm")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	product, err := h.products.GetByID(ctx, id)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tải sản phẩm")
	}
	if product == nil {
		return errorJSON(c, http.StatusNotFound, "Sản phẩm không tồn tại")
	}
	return c.JSON(http.StatusOK, product)
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Available   *bool   `json:"available"`
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if req.Name == "" {
		return errorJSON(c, http.StatusBadRequest, "Vui lòng nhập tên sản phẩm")
	}
	if req.Price <= 0 {
		return errorJSON(c, http.StatusBadRequest, "Giá sản phẩm phải lớn hơn 0")
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Available:   true,
	}
	if req.Available != nil {
		product.Available = *req.Available
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	if err := h.products.Create(ctx, &product); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tạo sản phẩm")
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}

	fields := bson.M{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.Price > 0 {
		fields["price"] = req.Price
	}
	if req.Image != "" {
		fields["image"] = req.Image
	}
	if req.Category != "" {
		fields["category"] = req.Category
	}
	if req.Available != nil {
		fields["available"] = *req.Available
	}
	if len(fields) == 0 {
		return errorJSON(c, http.StatusBadRequest, "Không có thay đổi nào")
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	product, err := h.products.Update(ctx, id, fields)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể cập nhật sản phẩm")
	}
	if product == nil {
		return errorJSON(c, http.StatusNotFound, "Sản phẩm không tồn tại")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	deleted, err := h.products.Delete(ctx, id)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể xóa sản phẩm")
	}
	if !deleted {
		return errorJSON(c, http.StatusNotFound, "Sản phẩm không tồn tại")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Đã xóa sản phẩm"})
}
