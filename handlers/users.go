package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/nafood/nafood-backend-go/middleware"
	"github.com/nafood/nafood-backend-go/models"
)

// UserHandler is the admin user-management panel. All routes sit behind the
// admin guard.
type UserHandler struct {
	users UserStore
}

func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tải danh sách người dùng")
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tải người dùng")
	}
	if user == nil {
		return errorJSON(c, http.StatusNotFound, "Người dùng không tồn tại")
	}

	user.Password = ""
	return c.JSON(http.StatusOK, user)
}

type adminUpdateUserRequest struct {
	Name    string       `json:"name"`
	Phone   string       `json:"phone"`
	Address string       `json:"address"`
	Role    *models.Role `json:"role"`
	Active  *bool        `json:"active"`
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	var req adminUpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if req.Role != nil && !req.Role.IsValid() {
		return errorJSON(c, http.StatusBadRequest, "Vai trò không hợp lệ")
	}

	fields := bson.M{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}
	if req.Address != "" {
		fields["address"] = req.Address
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	if len(fields) == 0 {
		return errorJSON(c, http.StatusBadRequest, "Không có thay đổi nào")
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	user, err := h.users.Update(ctx, id, fields)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể cập nhật người dùng")
	}
	if user == nil {
		return errorJSON(c, http.StatusNotFound, "Người dùng không tồn tại")
	}

	user.Password = ""
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	if callerID, ok := middleware.CallerID(c); ok && callerID == id {
		return errorJSON(c, http.StatusBadRequest, "Không thể xóa tài khoản của chính bạn")
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	deleted, err := h.users.Delete(ctx, id)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể xóa người dùng")
	}
	if !deleted {
		return errorJSON(c, http.StatusNotFound, "Người dùng không tồn tại")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Đã xóa người dùng"})
}
