package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nafood/nafood-backend-go/models"
	"github.com/nafood/nafood-backend-go/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// AuthMiddleware validates the Bearer token and puts the caller's id and
// role on the request context.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Thiếu thông tin xác thực"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Định dạng xác thực không hợp lệ"})
			}

			claims, err := utils.ValidateJWT(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Phiên đăng nhập không hợp lệ hoặc đã hết hạn"})
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextRole, claims.Role)
			return next(c)
		}
	}
}

// RequireRole gates a route to the given roles. Must sit behind
// AuthMiddleware.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextRole).(models.Role)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Chưa đăng nhập"})
			}
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Bạn không có quyền thực hiện thao tác này"})
		}
	}
}

// CallerID returns the authenticated user's id from the context.
func CallerID(c echo.Context) (int64, bool) {
	id, ok := c.Get(ContextUserID).(int64)
	return id, ok
}

// CallerRole returns the authenticated user's role from the context.
func CallerRole(c echo.Context) models.Role {
	if role, ok := c.Get(ContextRole).(models.Role); ok {
		return role
	}
	return models.RoleUser
}
