package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/nafood/nafood-backend-go/models"
)

type BannerHandler struct {
	banners BannerStore
}

func NewBannerHandler(banners BannerStore) *BannerHandler {
	return &BannerHandler{banners: banners}
}

// List serves the carousel. ?all=true is the admin view including inactive
// banners; the route for it sits behind the admin guard.
func (h *BannerHandler) List(c echo.Context) error {
	activeOnly := c.QueryParam("all") != "true"

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	banners, err := h.banners.List(ctx, activeOnly)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tải banner")
	}
	return c.JSON(http.StatusOK, banners)
}

type bannerRequest struct {
	Title     string `json:"title"`
	Image     string `json:"image"`
	Link      string `json:"link"`
	Active    *bool  `json:"active"`
	SortOrder *int   `json:"sortOrder"`
}

func (h *BannerHandler) Create(c echo.Context) error {
	var req bannerRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if req.Image == "" {
		return errorJSON(c, http.StatusBadRequest, "Vui lòng chọn hình ảnh banner")
	}

	banner := models.Banner{
		Title:  req.Title,
		Image:  req.Image,
		Link:   req.Link,
		Active: true,
	}
	if req.Active != nil {
		banner.Active = *req.Active
	}
	if req.SortOrder != nil {
		banner.SortOrder = *req.SortOrder
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	if err := h.banners.Create(ctx, &banner); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tạo banner")
	}
	return c.JSON(http.StatusCreated, banner)
}

func (h *BannerHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	var req bannerRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}

	fields := bson.M{}
	if req.Title != "" {
		fields["title"] = req.Title
	}
	if req.Image != "" {
		fields["image"] = req.Image
	}
	if req.Link != "" {
		fields["link"] = req.Link
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	if req.SortOrder != nil {
		fields["sortOrder"] = *req.SortOrder
	}
	if len(fields) == 0 {
		return errorJSON(c, http.StatusBadRequest, "Không có thay đổi nào")
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	banner, err := h.banners.Update(ctx, id, fields)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể cập nhật banner")
	}
	if banner == nil {
		return errorJSON(c, http.StatusNotFound, "Banner không tồn tại")
	}
	return c.JSON(http.StatusOK, banner)
}

func (h *BannerHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	deleted, err := h.banners.Delete(ctx, id)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể xóa banner")
	}
	if !deleted {
		return errorJSON(c, http.StatusNotFound, "Banner không tồn tại")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Đã xóa banner"})
}
