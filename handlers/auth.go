package handlers

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/nafood/nafood-backend-go/middleware"
	"github.com/nafood/nafood-backend-go/models"
	"github.com/nafood/nafood-backend-go/utils"
)

type AuthHandler struct {
	users UserStore
}

func NewAuthHandler(users UserStore) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Register creates a customer account. Role is always "user"; staff and
// admin accounts are promoted through the admin panel.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}

	if req.Name == "" {
		return errorJSON(c, http.StatusBadRequest, "Vui lòng nhập họ tên")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Email không hợp lệ")
	}
	if len(req.Password) < 6 {
		return errorJSON(c, http.StatusBadRequest, "Mật khẩu phải có ít nhất 6 ký tự")
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	existing, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể kiểm tra tài khoản")
	}
	if existing != nil {
		return errorJSON(c, http.StatusConflict, "Email đã được đăng ký")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể xử lý mật khẩu")
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     models.RoleUser,
		Phone:    req.Phone,
		Address:  req.Address,
		Active:   true,
	}
	if err := h.users.Create(ctx, &user); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tạo tài khoản")
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể đăng nhập")
	}
	if user == nil {
		return errorJSON(c, http.StatusUnauthorized, "Email hoặc mật khẩu không đúng")
	}
	if !user.Active {
		return errorJSON(c, http.StatusForbidden, "Tài khoản đã bị khóa")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return errorJSON(c, http.StatusUnauthorized, "Email hoặc mật khẩu không đúng")
	}

	token, err := utils.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tạo phiên đăng nhập")
	}

	user.Password = ""
	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "Chưa đăng nhập")
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	user, err := h.users.GetByID(ctx, callerID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể tải thông tin tài khoản")
	}
	if user == nil {
		return errorJSON(c, http.StatusNotFound, "Tài khoản không tồn tại")
	}

	user.Password = ""
	return c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateMe updates the caller's own profile. Email and role are not
// editable here.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "Chưa đăng nhập")
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
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

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	user, err := h.users.Update(ctx, callerID, fields)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể cập nhật thông tin")
	}
	if user == nil {
		return errorJSON(c, http.StatusNotFound, "Tài khoản không tồn tại")
	}

	user.Password = ""
	return c.JSON(http.StatusOK, user)
}
